// Package userbehavior normalizes the mobile device usage dataset into users,
// devices, operating systems and usage profiles.
package userbehavior

import (
	"github.com/pilosa/relkit"
)

// Name identifies the domain.
const Name = "userbehavior"

// Domain implements relkit.Domain. Users are not deduplicated: the User ID
// is the table's primary key, so a repeated id fails the load.
type Domain struct {
	devices *relkit.Cache[string, *Device]
	systems *relkit.Cache[string, *OS]

	graph *relkit.Graph
	log   relkit.Logger
}

// NewDomain returns a Domain with empty device and OS caches.
func NewDomain(log relkit.Logger) *Domain {
	if log == nil {
		log = relkit.NopLogger{}
	}
	return &Domain{
		devices: relkit.NewCache[string, *Device](),
		systems: relkit.NewCache[string, *OS](),
		graph: relkit.NewGraph().
			Declare(relkit.Reference, Devices, OperatingSystems).
			Declare(relkit.Fact, Users, UserBehaviors),
		log: log,
	}
}

func (d *Domain) Name() string            { return Name }
func (d *Domain) Tables() []*relkit.Table { return Tables() }
func (d *Domain) NewRecord() interface{}  { return &Record{} }
func (d *Domain) Graph() *relkit.Graph    { return d.graph }

func (d *Domain) Transform(line int, rec interface{}) error {
	r, err := rec.(*Record).decode()
	if err != nil {
		return relkit.AtLine(line, err)
	}
	dev, created := d.devices.Resolve(r.device, func() *Device {
		return &Device{Model: r.device}
	})
	if created {
		d.graph.Add(dev)
	}
	os, created := d.systems.Resolve(r.os, func() *OS {
		return &OS{Name: r.os}
	})
	if created {
		d.graph.Add(os)
	}

	u := r.user
	b := r.behavior
	b.User, b.Device, b.OS = &u, dev, os
	d.graph.Add(&u, &b)
	return nil
}
