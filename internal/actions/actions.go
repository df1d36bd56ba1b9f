package actions

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ID is the optimizer's short name for a crafting action, e.g. "wasteNot2".
type ID string

const (
	BasicSynthesis     ID = "basicSynth"
	BasicSynthesis2    ID = "basicSynth2"
	BasicTouch         ID = "basicTouch"
	MastersMend        ID = "mastersMend"
	HastyTouch         ID = "hastyTouch"
	RapidSynthesis     ID = "rapidSynthesis"
	Observe            ID = "observe"
	WasteNot           ID = "wasteNot"
	Veneration         ID = "veneration"
	StandardTouch      ID = "standardTouch"
	GreatStrides       ID = "greatStrides"
	Innovation         ID = "innovation"
	FinalAppraisal     ID = "finalAppraisal"
	WasteNot2          ID = "wasteNot2"
	ByregotsBlessing   ID = "byregotsBlessing"
	PreciseTouch       ID = "preciseTouch"
	MuscleMemory       ID = "muscleMemory"
	CarefulSynthesis   ID = "carefulSynthesis"
	Manipulation       ID = "manipulation"
	PrudentTouch       ID = "prudentTouch"
	FocusedSynthesis   ID = "focusedSynthesis"
	FocusedTouch       ID = "focusedTouch"
	Reflect            ID = "reflect"
	PreparatoryTouch   ID = "preparatoryTouch"
	Groundwork         ID = "groundwork"
	DelicateSynthesis  ID = "delicateSynthesis"
	IntensiveSynthesis ID = "intensiveSynthesis"
	TrainedEye         ID = "trainedEye"
	AdvancedTouch      ID = "advancedTouch"
	PrudentSynthesis   ID = "prudentSynthesis"
	TrainedFinesse     ID = "trainedFinesse"
	CarefulObservation ID = "carefulObservation"
	HeartAndSoul       ID = "heartAndSoul"
)

// Info is one row of the action table. NameKey selects the entry in every
// translation table. Buff actions get the short macro wait.
type Info struct {
	ID      ID
	NameKey string
	Buff    bool
}

// NOTE: translate tables are keyed by NameKey; keep both in sync.
var table = map[ID]Info{
	BasicSynthesis:     {NameKey: "basic_synthesis"},
	BasicSynthesis2:    {NameKey: "basic_synthesis"},
	BasicTouch:         {NameKey: "basic_touch"},
	MastersMend:        {NameKey: "masters_mend", Buff: true},
	HastyTouch:         {NameKey: "hasty_touch"},
	RapidSynthesis:     {NameKey: "rapid_synthesis"},
	Observe:            {NameKey: "observe"},
	WasteNot:           {NameKey: "waste_not", Buff: true},
	Veneration:         {NameKey: "veneration", Buff: true},
	StandardTouch:      {NameKey: "standard_touch"},
	GreatStrides:       {NameKey: "great_strides", Buff: true},
	Innovation:         {NameKey: "innovation", Buff: true},
	FinalAppraisal:     {NameKey: "final_appraisal", Buff: true},
	WasteNot2:          {NameKey: "waste_not_2", Buff: true},
	ByregotsBlessing:   {NameKey: "byregots_blessing"},
	PreciseTouch:       {NameKey: "precise_touch"},
	MuscleMemory:       {NameKey: "muscle_memory"},
	CarefulSynthesis:   {NameKey: "careful_synthesis"},
	Manipulation:       {NameKey: "manipulation", Buff: true},
	PrudentTouch:       {NameKey: "prudent_touch"},
	FocusedSynthesis:   {NameKey: "focused_synthesis"},
	FocusedTouch:       {NameKey: "focused_touch"},
	Reflect:            {NameKey: "reflect"},
	PreparatoryTouch:   {NameKey: "preparatory_touch"},
	Groundwork:         {NameKey: "groundwork"},
	DelicateSynthesis:  {NameKey: "delicate_synthesis"},
	IntensiveSynthesis: {NameKey: "intensive_synthesis"},
	TrainedEye:         {NameKey: "trained_eye"},
	AdvancedTouch:      {NameKey: "advanced_touch"},
	PrudentSynthesis:   {NameKey: "prudent_synthesis"},
	TrainedFinesse:     {NameKey: "trained_finesse"},
	CarefulObservation: {NameKey: "careful_observation", Buff: true},
	HeartAndSoul:       {NameKey: "heart_and_soul", Buff: true},
}

func init() {
	for id, info := range table {
		info.ID = id
		table[id] = info
	}
}

// Lookup returns the table row for id.
func Lookup(id ID) (Info, bool) {
	info, ok := table[id]
	return info, ok
}

// IsKnown returns true if the action identifier is recognized.
func IsKnown(id ID) bool {
	_, ok := table[id]
	return ok
}

// IsBuff reports whether id is a buff action. Unknown ids are not buffs.
func IsBuff(id ID) bool {
	return table[id].Buff
}

// Known returns every action identifier, sorted.
func Known() []ID {
	out := make([]ID, 0, len(table))
	for id := range table {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ShortName derives the optimizer short name from an English display name:
// "Waste Not II" becomes "wasteNot2", "Byregot's Blessing" becomes
// "byregotsBlessing".
func ShortName(display string) ID {
	fields := strings.Fields(strings.ReplaceAll(display, "'", ""))
	var b strings.Builder
	for i, f := range fields {
		if f == "II" {
			f = "2"
		}
		if i == 0 {
			b.WriteString(strings.ToLower(f))
			continue
		}
		r := []rune(strings.ToLower(f))
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return ID(b.String())
}

// Parse resolves user input to a known action id. It accepts the short
// name in any case as well as an English display name.
func Parse(name string) (ID, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", fmt.Errorf("action name missing")
	}
	if id := ID(n); IsKnown(id) {
		return id, nil
	}
	if id := ShortName(n); IsKnown(id) {
		return id, nil
	}
	for id := range table {
		if strings.EqualFold(string(id), n) {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown action '%s'", name)
}
