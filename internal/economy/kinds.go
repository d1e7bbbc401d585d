package economy

import (
	"fmt"
	"strings"
)

// ResourceKind enumerates the strategic resources held by the player.
type ResourceKind uint8

const (
	ResourceCurrency       ResourceKind = iota // Spent on recruitment and upkeep
	ResourceAlloys                             // Construction and equipment
	ResourceTechComponents                     // Research costs
	ResourceIntel                              // Mission scouting
)

// NumResources is the total number of resource kinds.
const NumResources = 4

var resourceNames = [NumResources]string{"currency", "alloys", "tech_components", "intel"}

// MaterialKind enumerates salvaged crafting materials.
type MaterialKind uint8

const (
	MaterialScrap MaterialKind = iota
	MaterialCircuitry
	MaterialBiomass
	MaterialCrystal
	MaterialFuel
)

// NumMaterials is the total number of material kinds.
const NumMaterials = 5

var materialNames = [NumMaterials]string{"scrap", "circuitry", "biomass", "crystal", "fuel"}

// Starting balances for a new campaign.
const (
	StartCurrency       = 500
	StartAlloys         = 0
	StartTechComponents = 0
	StartIntel          = 0
)

// AllResources lists every resource kind in declaration order.
func AllResources() []ResourceKind {
	kinds := make([]ResourceKind, NumResources)
	for i := range kinds {
		kinds[i] = ResourceKind(i)
	}
	return kinds
}

// AllMaterials lists every material kind in declaration order.
func AllMaterials() []MaterialKind {
	kinds := make([]MaterialKind, NumMaterials)
	for i := range kinds {
		kinds[i] = MaterialKind(i)
	}
	return kinds
}

func (k ResourceKind) Valid() bool { return int(k) < NumResources }

func (k ResourceKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("resource(%d)", uint8(k))
	}
	return resourceNames[k]
}

func (k ResourceKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown resource kind %d", uint8(k))
	}
	return []byte(resourceNames[k]), nil
}

func (k *ResourceKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range resourceNames {
		if n == name {
			*k = ResourceKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown resource kind %q", text)
}

func (k MaterialKind) Valid() bool { return int(k) < NumMaterials }

func (k MaterialKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("material(%d)", uint8(k))
	}
	return materialNames[k]
}

func (k MaterialKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown material kind %d", uint8(k))
	}
	return []byte(materialNames[k]), nil
}

func (k *MaterialKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for i, n := range materialNames {
		if n == name {
			*k = MaterialKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown material kind %q", text)
}
