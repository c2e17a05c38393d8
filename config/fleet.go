package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	mb "github.com/saeidalz13/battleship-solo/models/battleship"
)

// ShipRecord is one ship as written in a fleet file, e.g.
// {"shipName": "Cruiser", "letterPos": "A", "numberPos": 9, "orientation": "h"}
type ShipRecord struct {
	ShipName    string `json:"shipName" yaml:"shipName"`
	LetterPos   string `json:"letterPos" yaml:"letterPos"`
	NumberPos   int    `json:"numberPos" yaml:"numberPos"`
	Orientation string `json:"orientation" yaml:"orientation"`
}

type FleetConfig struct {
	PlayerShips []ShipRecord `json:"playerShips" yaml:"playerShips"`
	EnemyShips  []ShipRecord `json:"enemyShips" yaml:"enemyShips"`
}

// LoadFleetConfig reads a .json, .yaml or .yml fleet file.
func LoadFleetConfig(path string) (FleetConfig, error) {
	var cfg FleetConfig

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &cfg)
	case ".json":
		err = json.Unmarshal(raw, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported fleet config extension: %s", path)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to decode fleet config %s: %w", path, err)
	}

	return cfg, nil
}

func (fc FleetConfig) PlayerPlacements() ([]mb.ShipPlacement, error) {
	return ToPlacements(fc.PlayerShips)
}

// EnemyPlacements returns nil without error when no enemy fleet is
// configured; the game then draws a random one.
func (fc FleetConfig) EnemyPlacements() ([]mb.ShipPlacement, error) {
	if len(fc.EnemyShips) == 0 {
		return nil, nil
	}
	return ToPlacements(fc.EnemyShips)
}

func ToPlacements(records []ShipRecord) ([]mb.ShipPlacement, error) {
	placements := make([]mb.ShipPlacement, 0, len(records))
	for i, rec := range records {
		p, err := rec.ToPlacement()
		if err != nil {
			return nil, fmt.Errorf("ship record %d: %w", i, err)
		}
		placements = append(placements, p)
	}
	return placements, nil
}

func (r ShipRecord) ToPlacement() (mb.ShipPlacement, error) {
	name, err := mb.ParseShipName(r.ShipName)
	if err != nil {
		return mb.ShipPlacement{}, err
	}

	row, err := mb.LetterToRow(r.LetterPos)
	if err != nil {
		return mb.ShipPlacement{}, err
	}

	orientation, err := mb.ParseOrientation(r.Orientation)
	if err != nil {
		return mb.ShipPlacement{}, err
	}

	// Column range is checked by placement itself
	return mb.NewShipPlacement(name, mb.NewCoordinates(row, r.NumberPos), orientation), nil
}
