// Package content registers the built-in cards, enemies, statuses and relics.
package content

import "github.com/magefree/battle-engine-go/internal/battle/rules"

// NewLibrary returns a library populated with every built-in definition.
func NewLibrary() *rules.Library {
	lib := rules.NewLibrary()
	for _, def := range statusDefinitions() {
		lib.RegisterStatus(def)
	}
	for _, def := range cardDefinitions() {
		lib.RegisterCard(def)
	}
	for _, def := range enemyDefinitions() {
		lib.RegisterEnemy(def)
	}
	for _, def := range relicDefinitions() {
		lib.RegisterRelic(def)
	}
	return lib
}
