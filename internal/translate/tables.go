package translate

// Table maps an action name key to its in-game display name.
type Table map[string]string

// English is the reference table; every action name key must be present.
var English = Table{
	"basic_synthesis":     "Basic Synthesis",
	"basic_touch":         "Basic Touch",
	"masters_mend":        "Master's Mend",
	"hasty_touch":         "Hasty Touch",
	"rapid_synthesis":     "Rapid Synthesis",
	"observe":             "Observe",
	"waste_not":           "Waste Not",
	"veneration":          "Veneration",
	"standard_touch":      "Standard Touch",
	"great_strides":       "Great Strides",
	"innovation":          "Innovation",
	"final_appraisal":     "Final Appraisal",
	"waste_not_2":         "Waste Not II",
	"byregots_blessing":   "Byregot's Blessing",
	"precise_touch":       "Precise Touch",
	"muscle_memory":       "Muscle Memory",
	"careful_synthesis":   "Careful Synthesis",
	"manipulation":        "Manipulation",
	"prudent_touch":       "Prudent Touch",
	"focused_synthesis":   "Focused Synthesis",
	"focused_touch":       "Focused Touch",
	"reflect":             "Reflect",
	"preparatory_touch":   "Preparatory Touch",
	"groundwork":          "Groundwork",
	"delicate_synthesis":  "Delicate Synthesis",
	"intensive_synthesis": "Intensive Synthesis",
	"trained_eye":         "Trained Eye",
	"advanced_touch":      "Advanced Touch",
	"prudent_synthesis":   "Prudent Synthesis",
	"trained_finesse":     "Trained Finesse",
	"careful_observation": "Careful Observation",
	"heart_and_soul":      "Heart and Soul",
}

var French = Table{
	"basic_synthesis":     "Travail de base",
	"basic_touch":         "Ouvrage de base",
	"masters_mend":        "Réparation de maître",
	"hasty_touch":         "Ouvrage hâtif",
	"rapid_synthesis":     "Travail hâtif",
	"observe":             "Observation",
	"waste_not":           "Parcimonie",
	"veneration":          "Vénération",
	"standard_touch":      "Ouvrage standard",
	"great_strides":       "Grands progrès",
	"innovation":          "Innovation",
	"final_appraisal":     "Estimation finale",
	"waste_not_2":         "Parcimonie pérenne",
	"byregots_blessing":   "Bénédiction de Byregot",
	"precise_touch":       "Ouvrage précis",
	"muscle_memory":       "Mémoire musculaire",
	"careful_synthesis":   "Travail prudent",
	"manipulation":        "Manipulation",
	"prudent_touch":       "Ouvrage parcimonieux",
	"focused_synthesis":   "Travail attentif",
	"focused_touch":       "Ouvrage attentif",
	"preparatory_touch":   "Ouvrage préparatoire",
	"groundwork":          "Travail préparatoire",
	"delicate_synthesis":  "Travail minutieux",
	"intensive_synthesis": "Travail vigilant",
	"advanced_touch":      "Ouvrage avancé",
	"prudent_synthesis":   "Travail parcimonieux",
}

var German = Table{
	"basic_synthesis":   "Bearbeiten",
	"basic_touch":       "Veredelung",
	"masters_mend":      "Wiederherstellung",
	"hasty_touch":       "Hastige Veredelung",
	"rapid_synthesis":   "Schnelle Bearbeitung",
	"observe":           "Beobachten",
	"waste_not":         "Nachhaltigkeit",
	"veneration":        "Ehrfurcht",
	"great_strides":     "Große Schritte",
	"innovation":        "Innovation",
	"waste_not_2":       "Nachhaltigkeit II",
	"byregots_blessing": "Byregots Segen",
	"manipulation":      "Manipulation",
}

var Japanese = Table{
	"basic_synthesis":     "作業",
	"basic_touch":         "加工",
	"masters_mend":        "マスターズメンド",
	"hasty_touch":         "ヘイスティタッチ",
	"rapid_synthesis":     "突貫作業",
	"observe":             "経過観察",
	"waste_not":           "倹約",
	"veneration":          "ヴェネレーション",
	"standard_touch":      "中級加工",
	"great_strides":       "グレートストライド",
	"innovation":          "イノベーション",
	"final_appraisal":     "最終確認",
	"waste_not_2":         "長期倹約",
	"byregots_blessing":   "ビエルゴの祝福",
	"precise_touch":       "集中加工",
	"muscle_memory":       "確信",
	"careful_synthesis":   "模範作業",
	"manipulation":        "マニピュレーション",
	"prudent_touch":       "倹約加工",
	"focused_synthesis":   "注視作業",
	"focused_touch":       "注視加工",
	"reflect":             "真価",
	"preparatory_touch":   "下地加工",
	"groundwork":          "下地作業",
	"delicate_synthesis":  "精密作業",
	"intensive_synthesis": "集中作業",
	"trained_eye":         "匠の早業",
	"advanced_touch":      "上級加工",
	"prudent_synthesis":   "倹約作業",
	"trained_finesse":     "匠の絶技",
}

// DefaultTables returns the bundled tables keyed by language code.
func DefaultTables() map[string]Table {
	return map[string]Table{
		"en": English,
		"fr": French,
		"de": German,
		"ja": Japanese,
	}
}
