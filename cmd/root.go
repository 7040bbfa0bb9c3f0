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

// Package cmd holds the relkit command line.
package cmd

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	// Version of this software - filled in by ldflags in Makefile.
	Version = "v0.0.0"
	// BuildTime of this software - filled in by ldflags in Makefile.
	BuildTime = "not recorded"
)

// EnvPrefix is the prefix of environment variables which set flags, e.g.
// RELKIT_BATCH_SIZE for --batch-size.
const EnvPrefix = "RELKIT"

// configFlag names the TOML file flag. It has no shorthand since the flags
// commandeer generates for each subcommand claim the single letters.
const configFlag = "config"

var subcommandFns = map[string]func(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command{}

// NewRootCommand returns the relkit command with every registered
// subcommand attached in name order.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:   "relkit",
		Short: "relkit - normalize flat CSV datasets into relational stores",
		Long: `Load denormalized CSV exports into normalized SQLite or
Postgres schemas. Repeated reference values (customers,
categories, branches, device models, ...) become one row each
and every fact row points at them by surrogate key.

A flag not given on the command line is taken from the
environment (` + EnvPrefix + `_ followed by the flag name upper
cased with dashes as underscores), then from the TOML file
named by --` + configFlag + `, then from its default.

Version: ` + Version + `
Build Time: ` + BuildTime + "\n",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := newConfig(cmd.Flags(), EnvPrefix)
			if err != nil {
				return err
			}
			return applyConfig(v, cmd.Flags())
		},
	}
	rc.PersistentFlags().String(configFlag, "", "TOML file to read flag values from.")

	names := make([]string, 0, len(subcommandFns))
	for name := range subcommandFns {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		rc.AddCommand(subcommandFns[name](stdin, stdout, stderr))
	}
	rc.SetIn(stdin)
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

// newConfig layers flags over prefixed environment variables over the
// config file, if one is named.
func newConfig(flags *pflag.FlagSet, envPrefix string) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.Wrap(err, "binding flags")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(configFlag); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
	}
	return v, nil
}

// applyConfig sets every flag which wasn't given on the command line to its
// value in v.
func applyConfig(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed {
			// Setting a slice flag appends, so a flag given on the
			// command line must not be set again.
			return
		}
		if serr := f.Value.Set(configValue(v, f)); serr != nil {
			err = errors.Wrapf(serr, "setting --%s", f.Name)
		}
	})
	return err
}

// configValue returns the value v holds for f in the form f.Value.Set
// accepts. Slices from a TOML file are real lists, not the comma separated
// strings flags and environment variables use.
func configValue(v *viper.Viper, f *pflag.Flag) string {
	if strings.HasSuffix(f.Value.Type(), "Slice") {
		return strings.Join(v.GetStringSlice(f.Name), ",")
	}
	return v.GetString(f.Name)
}
