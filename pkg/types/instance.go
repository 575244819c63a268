package types

import (
	"strings"
	"time"
)

// Family is the capability variant of an instance family. Burstable
// families accrue and spend CPU credits; standard families do not.
type Family string

const (
	FamilyBurstable Family = "burstable"
	FamilyStandard  Family = "standard"
)

// burstableFamilies is the dispatch table for credit-governed families.
// Extending this set changes which instances get credit metrics requested,
// so additions should be deliberate.
var burstableFamilies = map[string]struct{}{
	"t2":  {},
	"t3":  {},
	"t3a": {},
	"t4g": {},
}

// excludedSizes are the size qualifiers below the reporting floor.
var excludedSizes = map[string]struct{}{
	"nano":  {},
	"micro": {},
	"small": {},
}

// InstanceRecord is one EC2 instance as discovered by the inventory.
// Records are read-only after creation.
type InstanceRecord struct {
	ID         string
	Name       string
	Region     string
	Type       string // full API type, e.g. "t3.medium"
	FamilyName string // e.g. "t3"
	Size       string // e.g. "medium"
	Family     Family
	State      string
	LaunchTime time.Time
	Tags       map[string]string
}

// ParseInstanceType splits an API instance type into family and size.
// Returns false for types that don't follow the family.size shape.
func ParseInstanceType(instanceType string) (family, size string, ok bool) {
	family, size, ok = strings.Cut(instanceType, ".")
	if !ok || family == "" || size == "" {
		return "", "", false
	}
	return family, size, true
}

// FamilyOf maps an instance family name to its capability variant.
// Unknown families are treated as standard.
func FamilyOf(familyName string) Family {
	if _, ok := burstableFamilies[familyName]; ok {
		return FamilyBurstable
	}
	return FamilyStandard
}

// SizeExcluded reports whether a size qualifier is below the floor the
// scanner evaluates (nano/micro/small).
func SizeExcluded(size string) bool {
	_, ok := excludedSizes[size]
	return ok
}
