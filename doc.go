// Copyright 2017 Pilosa Corp.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
// 1. Redistributions of source code must retain the above copyright
// notice, this list of conditions and the following disclaimer.
//
// 2. Redistributions in binary form must reproduce the above copyright
// notice, this list of conditions and the following disclaimer in the
// documentation and/or other materials provided with the distribution.
//
// 3. Neither the name of the copyright holder nor the names of its
// contributors may be used to endorse or promote products derived
// from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND
// CONTRIBUTORS "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES,
// INCLUDING, BUT NOT LIMITED TO, THE IMPLIED WARRANTIES OF
// MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
// DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR
// CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
// SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
// SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY,
// WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING
// NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
// OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH
// DAMAGE.

// Package relkit turns flat CSV exports into normalized relational schemas.
//
// A load is broken down into the following steps:
//
// 1. Source
//
//    A Source yields one decoded record per CSV row. The csv package provides
//    the standard implementation, which handles header validation, dropped
//    columns, and blank rows. Records are plain structs with csv tags, and the
//    line number of every row travels with it so that failures can say where
//    they happened.
//
// 2. Domain
//
//    A Domain decodes each record into typed values with the Parse helpers in
//    this package, then resolves the record's reference entities (customers,
//    branches, devices) through one Cache per entity type, and builds the fact
//    entities which point at them. Everything it builds goes into a Graph of
//    waves, one per table, in the order they must be written. Decoding finishes
//    before any Cache is touched, so a row which fails contributes nothing.
//
// 3. Loader
//
//    The Loader writes a Graph through a Tx. Reference waves go first. Rows of
//    auto-keyed tables which other rows point at are inserted one at a time to
//    get their surrogate keys back. Once every reference has a key, fact rows
//    copy those keys in (see Binder) and are written in batches sized to stay
//    under the store's parameter limit.
//
// 4. Ingester
//
//    The Ingester runs the whole thing: it reads the Source to the end, applies
//    the RowFailurePolicy to rows which fail, prepares the schema, and then
//    loads the Graph in a single transactional session. A failed load rolls
//    back every row it wrote, and a row failure under the Abort policy stops
//    the run before the store is touched at all.
//
// The store package implements Storage for SQLite and Postgres. The ingest
// package wires all of the above to configuration, logging, and metrics.
package relkit
