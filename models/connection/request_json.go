package connection

import (
	"github.com/saeidalz13/battleship-solo/config"
)

// EnemyShips may be left out; the server then places the
// opponent's fleet at random.
type ReqCreateGame struct {
	PlayerShips []config.ShipRecord `json:"player_ships"`
	EnemyShips  []config.ShipRecord `json:"enemy_ships,omitempty"`
}

// Command is the raw "<Letter>,<Number>" text typed by the player.
type ReqAttack struct {
	Command string `json:"command"`
}
