package resource

// Defaults returns the portfolio resource table.
//
// The resources carried over from the first version of the site keep its
// relaxed contract: zero matches are reported as counts, not as NotFound.
// Newer resources report missing documents.
func Defaults() []Definition {
	return []Definition{
		{
			Name:       "settings",
			Path:       "settings",
			Collection: "settings",
			Label:      "settings",
			Operations: OpCreate | OpList | OpUpdate,
		},
		{
			Name:           "appointments",
			Path:           "appointments",
			Collection:     "appoinments", // spelled as in the deployed database
			Label:          "appointment",
			Singular:       "appointment",
			Plural:         "appointments",
			StampCreatedAt: true,
			SoftDelete:     true,
			Operations:     OpAll,
		},
		{
			Name:           "experience",
			Path:           "experience",
			Collection:     "experience",
			Label:          "experience",
			StampCreatedAt: true,
			Operations:     OpAll,
		},
		{
			Name:           "gallery",
			Path:           "gallery",
			Collection:     "gallery",
			Label:          "gallery item",
			StampCreatedAt: true,
			Operations:     OpAll,
		},
		{
			Name:           "certificates",
			Path:           "certificates",
			Collection:     "certificates",
			Label:          "certificate",
			Singular:       "certificate",
			StampCreatedAt: true,
			Operations:     OpAll,
		},
		{
			Name:           "publications",
			Path:           "publications",
			Collection:     "publications",
			Label:          "publication",
			Singular:       "publication",
			StampCreatedAt: true,
			Operations:     OpAll,
		},
		{
			Name:           "activities",
			Path:           "activities",
			Collection:     "activities",
			Label:          "activity",
			Singular:       "activity",
			StampCreatedAt: true,
			Operations:     OpAll,
		},
		{
			Name:           "leadership",
			Path:           "leadership",
			Collection:     "leadership",
			Label:          "leadership",
			StampCreatedAt: true,
			Operations:     OpAll,
		},
		{
			Name:           "education",
			Path:           "education",
			Collection:     "education",
			Label:          "education",
			StampCreatedAt: true,
			ReportMissing:  true,
			Operations:     OpAll,
		},
		{
			Name:           "trainings",
			Path:           "trainings",
			Collection:     "trainings",
			Label:          "training",
			Singular:       "training",
			StampCreatedAt: true,
			ReportMissing:  true,
			Operations:     OpAll,
		},
		{
			Name:           "references",
			Path:           "references",
			Collection:     "references",
			Label:          "reference",
			Singular:       "reference",
			StampCreatedAt: true,
			ReportMissing:  true,
			Operations:     OpAll,
		},
		{
			Name:          "hero",
			Path:          "hero-section",
			Collection:    "hero",
			Label:         "hero section",
			Singular:      "hero",
			Plural:        "hero",
			ReportMissing: true,
			Operations:    OpAll,
		},
		{
			Name:          "about",
			Path:          "about-section",
			Collection:    "about",
			Label:         "about section",
			Singular:      "about",
			Plural:        "about",
			ReportMissing: true,
			Operations:    OpAll,
		},
		{
			Name:           "skills",
			Path:           "skills",
			Collection:     "skills",
			Label:          "skill",
			Singular:       "skill",
			StampCreatedAt: true,
			ReportMissing:  true,
			Operations:     OpAll,
		},
	}
}

// DefaultRegistry builds a registry from Defaults.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Defaults()...)
	if err != nil {
		// The static table is validated by tests.
		panic(err)
	}
	return r
}
