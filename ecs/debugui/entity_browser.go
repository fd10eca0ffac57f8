package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tetracube/ecs"
)

// ArchetypeInfo summarizes one archetype for display.
type ArchetypeInfo struct {
	ID             uint32
	ComponentTypes []string
	Entities       []ecs.EntityId
}

// EntityBrowser lists archetypes and the entities they hold, filtered by
// component name.
type EntityBrowser struct {
	storage            *ecs.Storage
	filterText         string
	maxEntitiesPerNode int
}

func NewEntityBrowser(storage *ecs.Storage, maxEntitiesPerNode int) *EntityBrowser {
	return &EntityBrowser{storage: storage, maxEntitiesPerNode: maxEntitiesPerNode}
}

// Archetypes returns the non-empty archetypes whose component list matches
// the filter, case-insensitively.
func (eb *EntityBrowser) Archetypes(filter string) []ArchetypeInfo {
	filter = strings.ToLower(filter)

	var infos []ArchetypeInfo
	for _, arch := range eb.storage.Archetypes() {
		if arch.Len() == 0 {
			continue
		}

		info := ArchetypeInfo{ID: arch.ID()}
		for _, t := range arch.Types() {
			info.ComponentTypes = append(info.ComponentTypes, t.Name())
		}
		if filter != "" && !strings.Contains(strings.ToLower(strings.Join(info.ComponentTypes, " ")), filter) {
			continue
		}

		for id := range arch.Iter() {
			info.Entities = append(info.Entities, id)
		}
		infos = append(infos, info)
	}
	return infos
}

func (eb *EntityBrowser) Render() {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.InputTextWithHint("##search", "Filter components...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	for _, arch := range eb.Archetypes(eb.filterText) {
		label := fmt.Sprintf("0x%X [%s] (%d)###arch%d", arch.ID, strings.Join(arch.ComponentTypes, ", "), len(arch.Entities), arch.ID)
		if !imgui.TreeNodeStr(label) {
			continue
		}
		for i, id := range arch.Entities {
			if i == eb.maxEntitiesPerNode {
				imgui.Text(fmt.Sprintf("... %d more", len(arch.Entities)-i))
				break
			}
			imgui.BulletText(fmt.Sprintf("Entity %d (index %d)", uint64(id), id.Index()))
		}
		imgui.TreePop()
	}

	imgui.End()
}
