package prune

// noteCategories are the tag values that mark a memory as a curated note
// rather than an episodic log entry.
var noteCategories = map[string]bool{
	"issue":      true,
	"convention": true,
	"workflow":   true,
	"reminder":   true,
	"general":    true,
}

// classifyMemory maps a memory to its display category.
// Rule order matters: an explicit kv tag wins, then any note category
// tag, and everything else is treated as episodic.
func classifyMemory(m Memory) MemoryType {
	for _, tag := range m.Tags {
		if tag == "kv" {
			return TypeKV
		}
	}
	for _, tag := range m.Tags {
		if noteCategories[tag] {
			return TypeNote
		}
	}
	return TypeEpisode
}

func hasTag(m Memory, tag string) bool {
	for _, t := range m.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
