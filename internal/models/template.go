package models

// Item is a single checkable line in a template section.
type Item struct {
	ID       string `json:"id" validate:"required"`
	Label    string `json:"label" validate:"required"`
	Required bool   `json:"required"`
}

// Section groups template items under a unique name.
type Section struct {
	Name  string `json:"name" validate:"required"`
	Items []Item `json:"items" validate:"dive"`
	// MinRequired is the minimum number of checked items for the section to count
	// as complete. Zero means unset: the number of required items is used instead.
	MinRequired int `json:"min_required,omitempty" validate:"gte=0"`
}

// Template is the checklist every daily entry is scored against.
type Template struct {
	Sections []Section `json:"sections" validate:"dive"`
}

// FindSection returns the section with the given name.
func (t Template) FindSection(name string) (Section, bool) {
	for _, s := range t.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// ItemCount returns the number of items across all sections.
func (t Template) ItemCount() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Items)
	}
	return n
}

// RequiredCount returns the number of items flagged as required.
func (s Section) RequiredCount() int {
	n := 0
	for _, item := range s.Items {
		if item.Required {
			n++
		}
	}
	return n
}

// Threshold returns how many checked items complete the section.
func (s Section) Threshold() int {
	if s.MinRequired > 0 {
		return s.MinRequired
	}
	return s.RequiredCount()
}

// FindItem returns the item with the given id.
func (s Section) FindItem(id string) (Item, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// DefaultTemplate returns the checklist seeded on init.
func DefaultTemplate() Template {
	return Template{
		Sections: []Section{
			{
				Name: "Activitate",
				Items: []Item{
					{ID: "a1", Label: "≥30 min activitate aerobă (mers alert/jog/ciclat/înot)", Required: true},
					{ID: "a2", Label: "7–10k pași astăzi", Required: true},
					{ID: "a3", Label: "2–3 plimbări de 5 min după mese", Required: true},
					{ID: "a4", Label: "Antrenament de forță (genuflexiuni/flotări/fandări)", Required: true},
				},
				MinRequired: 3,
			},
			{
				Name: "Dietă",
				Items: []Item{
					{ID: "d1", Label: "Fără băuturi dulci și dulciuri", Required: true},
					{ID: "d2", Label: "Fără făină/orez alb (doar integrale)", Required: true},
					{ID: "d3", Label: "Fără prăjeli/margarină; gătesc la cuptor sau abur (Airfryer)", Required: true},
					{ID: "d4", Label: "Ulei puțin și bun (măsline/rapiță)", Required: true},
					{ID: "d5", Label: "Legume ≥4 porții (½ farfurie)", Required: true},
					{ID: "d6", Label: "Fructe 1–2 porții (nu suc)", Required: true},
					{ID: "d7", Label: "≥1 porție pește azi sau săptămâna asta", Required: true},
					{ID: "d8", Label: "Apă ≥1,5 L", Required: true},
					{ID: "d9", Label: "Fibre ≥25 g", Required: true},
					{ID: "d10", Label: "Alcool: 0", Required: true},
				},
				MinRequired: 8,
			},
			{
				Name: "Medicație",
				Items: []Item{
					{ID: "m1", Label: "Medicație conform prescripției", Required: true},
				},
				MinRequired: 1,
			},
		},
	}
}
