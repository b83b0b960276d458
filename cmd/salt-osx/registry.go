package main

import (
	"github.com/mosen/salt-osx/internal/domain"
	"github.com/mosen/salt-osx/internal/domains/bluetooth"
	"github.com/mosen/salt-osx/internal/domains/power"
	"github.com/mosen/salt-osx/internal/domains/prefs"
	"github.com/mosen/salt-osx/internal/domains/printer"
	"github.com/mosen/salt-osx/internal/domains/remotemgmt"
)

// buildRegistry assembles the closed set of domain bindings. Registration
// order is fixed so error output and documentation stay stable.
func buildRegistry() (*domain.Registry, error) {
	registry := domain.NewRegistry()

	bindings := []domain.Binding{
		{
			Definition: remotemgmt.Definition(),
			Provider: remotemgmt.NewProvider(
				remotemgmt.DefaultPreferencesPath,
				remotemgmt.DefaultVNCPasswordPath,
				&remotemgmt.KickstartService{},
			),
		},
		{Definition: prefs.Definition(), Provider: prefs.NewProvider()},
		{Definition: power.Definition(), Provider: power.NewProvider()},
		{Definition: bluetooth.Definition(), Provider: bluetooth.NewProvider(bluetooth.DefaultPreferencesPath)},
		{Definition: printer.Definition(), Provider: printer.NewProvider()},
	}
	for _, b := range bindings {
		if err := registry.Register(b); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
