package techstack

import (
	"fmt"
	"sort"
)

// Category groups items for colouring only.
type Category string

const (
	Language   Category = "language"
	Backend    Category = "backend"
	Build      Category = "build"
	AI         Category = "ai"
	Design     Category = "design"
	Tools      Category = "tools"
	Blockchain Category = "blockchain"
	Web3       Category = "web3"
)

// Categories lists every known category in legend order.
var Categories = []Category{Blockchain, Language, Backend, Build, AI, Web3, Design, Tools}

// Item is one immutable tech pill.
type Item struct {
	Name     string   `yaml:"name" json:"name"`
	Category Category `yaml:"category" json:"category"`
	Badge    string   `yaml:"badge,omitempty" json:"badge,omitempty"`
}

// Palette holds the hex colours used for a category (border, fill, accent).
type Palette struct {
	Border string `json:"border"`
	Fill   string `json:"fill"`
	Accent string `json:"accent"`
}

var palettes = map[Category]Palette{
	Blockchain: {Border: "#a855f7", Fill: "#1e1030", Accent: "#c084fc"},
	Language:   {Border: "#3b82f6", Fill: "#0f1a30", Accent: "#60a5fa"},
	Backend:    {Border: "#22c55e", Fill: "#0c2415", Accent: "#4ade80"},
	Build:      {Border: "#eab308", Fill: "#2a2208", Accent: "#facc15"},
	AI:         {Border: "#ef4444", Fill: "#2c0f0f", Accent: "#f87171"},
	Web3:       {Border: "#f97316", Fill: "#2c1808", Accent: "#fb923c"},
	Design:     {Border: "#ec4899", Fill: "#2c0f1f", Accent: "#f472b6"},
	Tools:      {Border: "#06b6d4", Fill: "#08262c", Accent: "#22d3ee"},
}

var fallback = Palette{Border: "#6b7280", Fill: "#1f2937", Accent: "#9ca3af"}

// PaletteFor returns the colours of c, or a neutral grey for unknown categories.
func PaletteFor(c Category) Palette {
	if p, ok := palettes[c]; ok {
		return p
	}
	return fallback
}

func (c Category) Known() bool {
	_, ok := palettes[c]
	return ok
}

// Default is the portfolio's tech stack, in pyramid order.
func Default() []Item {
	return []Item{
		{Name: "TypeScript", Category: Language},
		{Name: "Supabase", Category: Backend},
		{Name: "Vite", Category: Build},
		{Name: "Flask", Category: Backend},
		{Name: "YOLOv5", Category: AI},
		{Name: "OpenAI API", Category: AI},
		{Name: "AI APIs", Category: AI},
		{Name: "Framer", Category: Design},
		{Name: "UX Writing", Category: Design},
		{Name: "Terminal Wizardry", Category: Tools},
		{Name: "HTML/CSS", Category: Language},
		{Name: "JavaScript", Category: Language},
		{Name: "Python", Category: Language},
		{Name: "PostgreSQL", Category: Backend},
		{Name: "Three.js / 3D", Category: Design, Badge: "learning"},
	}
}

// Minimal is a short catalog handy for demos and narrow terminals.
func Minimal() []Item {
	return []Item{
		{Name: "Go", Category: Language},
		{Name: "PostgreSQL", Category: Backend},
		{Name: "Docker", Category: Tools},
		{Name: "Bubble Tea", Category: Design, Badge: "new"},
		{Name: "Make", Category: Build},
		{Name: "LLMs", Category: AI},
	}
}

var catalogs = map[string]func() []Item{
	"default": Default,
	"minimal": Minimal,
}

// Named returns a built-in catalog by name.
func Named(name string) ([]Item, error) {
	fn, ok := catalogs[name]
	if !ok {
		return nil, fmt.Errorf("techstack: unknown catalog %q", name)
	}
	return fn(), nil
}

// Names lists the built-in catalogs, sorted.
func Names() []string {
	out := make([]string, 0, len(catalogs))
	for name := range catalogs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Validate checks names are present and unique and categories known.
func Validate(items []Item) error {
	if len(items) == 0 {
		return fmt.Errorf("techstack: empty catalog")
	}
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if it.Name == "" {
			return fmt.Errorf("techstack: item %d has no name", i)
		}
		if seen[it.Name] {
			return fmt.Errorf("techstack: duplicate item %q", it.Name)
		}
		seen[it.Name] = true
		if !it.Category.Known() {
			return fmt.Errorf("techstack: item %q has unknown category %q", it.Name, it.Category)
		}
	}
	return nil
}

// LegendEntry is one row of the category legend.
type LegendEntry struct {
	Category Category `json:"category"`
	Palette  Palette  `json:"palette"`
	Count    int      `json:"count"`
}

// Legend lists all categories in legend order with the number of items in each.
func Legend(items []Item) []LegendEntry {
	counts := make(map[Category]int)
	for _, it := range items {
		counts[it.Category]++
	}
	out := make([]LegendEntry, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, LegendEntry{Category: c, Palette: PaletteFor(c), Count: counts[c]})
	}
	return out
}

// Used returns the categories present in items, sorted by name.
func Used(items []Item) []Category {
	set := make(map[Category]bool)
	for _, it := range items {
		set[it.Category] = true
	}
	out := make([]Category, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
