package sand

import (
	"fmt"
	"strings"
)

// Material enumerates what a cell can hold. The numeric values double as the
// full layout codec.
type Material uint8

const (
	Empty Material = iota
	Wall
	Wood
	Sand
	Water
	Oil
	Steam
)

// NumMaterials is the number of distinct materials.
const NumMaterials = int(Steam) + 1

// immovable is the density assigned to materials that never move and are
// never displaced.
const immovable = 1 << 7

var materialNames = [NumMaterials]string{"empty", "wall", "wood", "sand", "water", "oil", "steam"}

var densities = [NumMaterials]int{
	Empty: 0,
	Steam: 1,
	Oil:   2,
	Water: 3,
	Sand:  4,
	Wall:  immovable,
	Wood:  immovable,
}

func (m Material) String() string {
	if !m.Valid() {
		return fmt.Sprintf("material(%d)", uint8(m))
	}
	return materialNames[m]
}

// ParseMaterial resolves a material by its lower-case name.
func ParseMaterial(s string) (Material, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range materialNames {
		if name == s {
			return Material(i), nil
		}
	}
	return Empty, fmt.Errorf("unknown material %q", s)
}

// Valid reports whether m is one of the enumerated materials.
func (m Material) Valid() bool { return int(m) < NumMaterials }

// Movable reports whether m can be displaced by a denser material.
func (m Material) Movable() bool { return m != Wall && m != Wood }

// IsLiquid reports whether m is Water or Oil.
func (m Material) IsLiquid() bool { return m == Water || m == Oil }

// Density returns the relative heaviness used by every displacement check.
func (m Material) Density() int {
	if !m.Valid() {
		return immovable
	}
	return densities[m]
}

// Next returns the material following m in set, wrapping around. Materials
// outside set restart the cycle at Empty.
func (m Material) Next(set MaterialSet) Material {
	mats := set.Materials()
	for i, candidate := range mats {
		if candidate == m {
			return mats[(i+1)%len(mats)]
		}
	}
	return Empty
}

// lighter reports whether mover may take target's cell.
func lighter(target, mover Material) bool {
	return target.Movable() && target.Density() < mover.Density()
}

// MaterialSet selects which materials are in play.
type MaterialSet uint8

const (
	// FullSet enables every material.
	FullSet MaterialSet = iota
	// ReducedSet drops Wood and Oil.
	ReducedSet
)

var (
	fullMaterials    = []Material{Empty, Wall, Wood, Sand, Water, Oil, Steam}
	reducedMaterials = []Material{Empty, Wall, Sand, Water, Steam}
)

func (s MaterialSet) String() string {
	if s == ReducedSet {
		return "reduced"
	}
	return "full"
}

// ParseMaterialSet resolves "full" or "reduced".
func ParseMaterialSet(s string) (MaterialSet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return FullSet, nil
	case "reduced":
		return ReducedSet, nil
	}
	return FullSet, fmt.Errorf("unknown material set %q", s)
}

// Materials lists the set in cycle order. The returned slice must not be
// modified.
func (s MaterialSet) Materials() []Material {
	if s == ReducedSet {
		return reducedMaterials
	}
	return fullMaterials
}

// Contains reports whether m belongs to the set.
func (s MaterialSet) Contains(m Material) bool {
	if s == ReducedSet {
		return m == Empty || m == Wall || m == Sand || m == Water || m == Steam
	}
	return m.Valid()
}
