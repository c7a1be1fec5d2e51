package defaults

import "github.com/spainrp/awards/internal/models"

// AdminID is the administrator seeded into a fresh config.
const AdminID = "710112055985963090"

// Colors returns the default embed and report palette.
func Colors() models.Colors {
	return models.Colors{
		Primary:    "#FF0055",
		Secondary:  "#00F0FF",
		Success:    "#00FF99",
		Error:      "#FF0000",
		Background: "#2B2D31",
	}
}

// Config returns a fresh copy of the default award configuration.
func Config() *models.AwardConfig {
	return &models.AwardConfig{
		AdminIDs: []string{AdminID},
		Awards:   Awards(),
		Colors:   Colors(),
	}
}

// Awards returns the default categories in presentation order.
func Awards() []models.Category {
	return []models.Category{
		{
			ID:          "mejor_cnp",
			Title:       "👮 Mejor CNP",
			Description: "### El agente del Cuerpo Nacional de Policía más destacado.",
			Candidates: []models.Candidate{
				{Label: "Bijjoupro08", Value: "bijjoupro08", Emoji: "👮‍♂️"},
				{Label: "Pablobuenos", Value: "pablobuenos", Emoji: "👮‍♂️"},
				{Label: "Rugby", Value: "rugby", Emoji: "👮‍♂️"},
			},
		},
		{
			ID:          "mejor_dao",
			Title:       "👮 Mejor DAO",
			Description: "### El mejor Director de la Policia Nacional.",
			Candidates: []models.Candidate{
				{Label: "Bijjoupro08", Value: "bijjoupro08_dao", Emoji: "👮"},
				{Label: "ElproSamu0622", Value: "elprosem0622_dao", Emoji: "👮‍♂️"},
				{Label: "Rockysonuepro", Value: "rockysonuepro", Emoji: "👮"},
			},
		},
		{
			ID:          "mejor_gc",
			Title:       "💚 Mejor GC",
			Description: "### El agente de la Guardia Civil más destacado.",
			Candidates: []models.Candidate{
				{Label: "Paco_2010pgamer", Value: "paco_2010", Emoji: "💂"},
				{Label: "Rodrix_tp", Value: "rodrix_tp", Emoji: "💂"},
				{Label: "melametemitio2", Value: "melametemitio2", Emoji: "💂"},
			},
		},
		{
			ID:          "mejor_dggc_tggc",
			Title:       "🚥 Mejor DGGC/TGGC",
			Description: "### El mejor Director de la Guardia Civil.",
			Candidates: []models.Candidate{
				{Label: "Rodrix_tp", Value: "rodrix_tp_tggc", Emoji: "👮"},
				{Label: "Nanobox", Value: "nanobox", Emoji: "👮"},
				{Label: "Nightmare", Value: "nightmare", Emoji: "👮"},
			},
		},
		{
			ID:          "mejor_ume",
			Title:       "🚑 Mejor UME",
			Description: "### El sanitario u operador de emergencias más valioso.",
			Candidates: []models.Candidate{
				{Label: "Luchano998", Value: "luchano998", Emoji: "🚑"},
				{Label: "dexter6355", Value: "dexter6355", Emoji: "🚑"},
				{Label: "Marrodconn", Value: "marrodconn", Emoji: "🚑"},
			},
		},
		{
			ID:          "mejor_cni",
			Title:       "🕵️ Mejor Agente del CNI",
			Description: "### Inteligencia, sigilo y eficacia.",
			Candidates: []models.Candidate{
				{Label: "Venus", Value: "venus", Emoji: "🕶️"},
				{Label: "ElproSamu0622", Value: "elprosem0622_cni", Emoji: "🕶️"},
				{Label: "Pablobuenos", Value: "pablobuenos_cni", Emoji: "🕶️"},
			},
		},
		{
			ID:          "mejor_ums_sam",
			Title:       "🆘 Mejor UMS/SAM",
			Description: "### Excelencia en servicios médicos y asistencia.",
			Candidates: []models.Candidate{
				{Label: "v1olxtte", Value: "v1olxtte", Emoji: "🩺"},
				{Label: "dexter6355", Value: "dexter6355_ums", Emoji: "🩺"},
				{Label: "adammarocxain", Value: "adammarocxain", Emoji: "🩺"},
			},
		},
		{
			ID:          "mejor_policial_global",
			Title:       "🚔 Mejor Agente (Global)",
			Description: "### El mejor agente entre CNP y Guardia Civil.",
			Candidates: []models.Candidate{
				{Label: "Pablobuenos", Value: "pablobuenos_glob", Emoji: "🌟"},
				{Label: "Rodrix_tp", Value: "rodrix_tp_glob", Emoji: "🌟"},
				{Label: "benjanaessens1234", Value: "benjanaessens", Emoji: "🌟"},
				{Label: "ElproSamu0622", Value: "elprosem0622_glob", Emoji: "🌟"},
			},
		},
		{
			ID:          "mejor_emergencias_global",
			Title:       "🚑 Mejor Emergencias (Global)",
			Description: "### El mejor efectivo entre UMS y UME.",
			Candidates: []models.Candidate{
				{Label: "Luchano998", Value: "luchano998_glob", Emoji: "🚑"},
				{Label: "Marrodconn", Value: "marrodconn_glob", Emoji: "🚑"},
				{Label: "v1olxtte", Value: "v1olxtte_glob", Emoji: "🚑"},
			},
		},
		{
			ID:          "mejor_faccion_legal",
			Title:       "🏛️ Mejor Facción Legal",
			Description: "### La organización pública con mejor desempeño.",
			Candidates: []models.Candidate{
				{Label: "CNP", Value: "cnp", Emoji: "🔵"},
				{Label: "GC", Value: "gc", Emoji: "🟢"},
				{Label: "UMS", Value: "ums", Emoji: "🟡"},
			},
		},
		{
			ID:          "mejor_criminal_rol",
			Title:       "🎭 Mejor Criminal (Rol)",
			Description: "### Quien mejor interpreta su personaje delictivo.",
			Candidates: []models.Candidate{
				{Label: "JoseyAlex", Value: "joseyalex", Emoji: "🎭"},
				{Label: "Gabriel", Value: "gabriel", Emoji: "🎭"},
				{Label: "Bijjoupro08", Value: "bijjoupro08_crim", Emoji: "🎭"},
			},
		},
		{
			ID:          "mejor_criminal_actividad",
			Title:       "⚡ Mejor Criminal (Actividad)",
			Description: "### El criminal más activo y constante.",
			Candidates: []models.Candidate{
				{Label: "Diarelys07", Value: "diarelys07", Emoji: "⚡"},
				{Label: "Lucrackh", Value: "lucrackh", Emoji: "⚡"},
				{Label: "JhDelaCruz", Value: "jhdelacruz", Emoji: "⚡"},
			},
		},
		{
			ID:          "mejor_criminal_general",
			Title:       "🔫 Mejor Criminal 2025",
			Description: "### El criminal definitivo del año.",
			Candidates: []models.Candidate{
				{Label: "JoseyAlex", Value: "joseyalex_gen", Emoji: "🩸"},
				{Label: "Diarelys", Value: "diarelys_gen", Emoji: "🩸"},
				{Label: "Lucrackh", Value: "lucrackh_gen", Emoji: "🩸"},
				{Label: "JhDelaCruz", Value: "jhdelacruz_gen", Emoji: "🩸"},
				{Label: "Rafamonterox", Value: "rafamonterox_crim", Emoji: "🩸"},
			},
		},
		{
			ID:          "mejor_banda_mafia",
			Title:       "🏴‍☠️ Mejor Banda/Mafia",
			Description: "### La organización criminal más poderosa.",
			Candidates: []models.Candidate{
				{Label: "Los Vagos", Value: "vagos", Emoji: "🟨"},
				{Label: "Los Families", Value: "families", Emoji: "🟩"},
				{Label: "Los Aztecas", Value: "aztecas", Emoji: "🟦"},
			},
		},
		{
			ID:          "mejor_staff",
			Title:       "🛡️ Mejor Staff",
			Description: "### Reconocimiento a su labor administrativa.",
			Candidates: []models.Candidate{
				{Label: "Rafamonterox", Value: "rafamonterox", Emoji: "🛡️"},
				{Label: "Pabloskyy", Value: "pabloskyy", Emoji: "🛡️"},
				{Label: "Julepe", Value: "julepe", Emoji: "🛡️"},
				{Label: "Marrodconn", Value: "marrodconn_staff", Emoji: "🛡️"},
				{Label: "Dylan", Value: "dylan", Emoji: "🛡️"},
			},
		},
		{
			ID:          "mejor_directivo",
			Title:       "👑 Mejor Directivo",
			Description: "### Liderazgo y gestión de la comunidad.",
			Candidates: []models.Candidate{
				{Label: "Nanubrine", Value: "nanubrine", Emoji: "👑"},
				{Label: "Nanobox", Value: "nanobox_dir", Emoji: "👑"},
				{Label: "Martines", Value: "martines", Emoji: "👑"},
			},
		},
		{
			ID:          "roleplayer_activo",
			Title:       "🔋 Roleplayer Más Activo",
			Description: "### Quien más vida da a las calles.",
			Candidates: []models.Candidate{
				{Label: "Diarelys07", Value: "diarelys07_rp", Emoji: "🔋"},
				{Label: "Lucrackh", Value: "lucrackh_rp", Emoji: "🔋"},
				{Label: "Rafamonterox", Value: "rafamonterox_rp", Emoji: "🔋"},
				{Label: "Marrodconn", Value: "marrodconn_rp", Emoji: "🔋"},
			},
		},
		{
			ID:          "mejor_roleplayer_calidad",
			Title:       "🌟 Mejor Roleplayer 2025",
			Description: "### Calidad de rol, sin sanciones y con roles memorables.",
			Candidates: []models.Candidate{
				{Label: "JoseyAlex", Value: "joseyalex_top", Emoji: "⭐"},
				{Label: "Gabriel", Value: "gabriel_top", Emoji: "⭐"},
				{Label: "ElproSamu0622", Value: "elprosem0622_top", Emoji: "⭐"},
				{Label: "benjanaessens1234", Value: "benjanaessens_top", Emoji: "⭐"},
				{Label: "Nanobox", Value: "nanobox_top", Emoji: "⭐"},
			},
		},
	}
}
