package main

import (
	"github.com/akmonengine/cuboid/geom"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// cuboidEntry is one cuboid as written in a layout file
type cuboidEntry struct {
	Name   string    `mapstructure:"name"`
	Origin []float64 `mapstructure:"origin"`
	Length float64   `mapstructure:"length"`
	Width  float64   `mapstructure:"width"`
	Height float64   `mapstructure:"height"`
}

// layout is the set of named cuboids read from a file
type layout struct {
	cuboids []*geom.Cuboid
	names   map[*geom.Cuboid]string
}

func (l *layout) name(c *geom.Cuboid) string {
	return l.names[c]
}

// loadLayout reads a yaml, json or toml file holding a "cuboids" list
func loadLayout(path string) (*layout, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "could not read layout %s", path)
	}

	var entries []cuboidEntry
	if err := v.UnmarshalKey("cuboids", &entries); err != nil {
		return nil, errors.Wrapf(err, "could not decode cuboids of %s", path)
	}
	if len(entries) == 0 {
		return nil, errors.Errorf("layout %s has no cuboids", path)
	}

	l := &layout{names: make(map[*geom.Cuboid]string, len(entries))}
	for i, e := range entries {
		c, err := geom.FromSlice(e.Origin, e.Length, e.Width, e.Height)
		if err != nil {
			return nil, errors.Wrapf(err, "cuboid %d (%q)", i, e.Name)
		}
		if e.Name == "" {
			e.Name = c.String()
		}
		l.cuboids = append(l.cuboids, c)
		l.names[c] = e.Name
	}

	return l, nil
}
