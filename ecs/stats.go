package ecs

import "sort"

// StorageStats summarizes what a Storage currently holds.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one non-empty archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// CollectStats walks the storage. Empty archetypes are not counted.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{}

	for _, archetype := range s.order {
		count := archetype.Len()
		if count == 0 {
			continue
		}

		names := make([]string, len(archetype.types))
		for i, typ := range archetype.types {
			names[i] = typ.String()
		}

		stats.ArchetypeCount++
		stats.TotalEntityCount += count
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: names,
			EntityCount:    count,
		})
	}

	for typ := range s.singletons {
		stats.SingletonTypes = append(stats.SingletonTypes, typ.String())
	}
	sort.Strings(stats.SingletonTypes)
	stats.SingletonCount = len(stats.SingletonTypes)

	return stats
}
