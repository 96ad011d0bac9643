// Package snapshot serializes a GameState and validates blobs loaded back from storage.
package snapshot

import (
	"encoding/json"
	"math"
	"strconv"

	"pickmydegree/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Encode serializes the state with the persisted camelCase field names.
func Encode(state domain.GameState) ([]byte, error) {
	return json.Marshal(withEmptyLists(state))
}

// withEmptyLists keeps sequences encoded as [] rather than null so Decode accepts them.
func withEmptyLists(s domain.GameState) domain.GameState {
	if s.SurvivingDegrees == nil {
		s.SurvivingDegrees = []domain.Degree{}
	}
	if s.EliminatedDegrees == nil {
		s.EliminatedDegrees = []domain.Degree{}
	}
	if s.NextRoundQueue == nil {
		s.NextRoundQueue = []domain.Degree{}
	}
	if s.Phase2Queue == nil {
		s.Phase2Queue = []domain.Match{}
	}
	if s.BracketQueue == nil {
		s.BracketQueue = []domain.Match{}
	}
	return s
}

// Decode validates a stored blob. It returns ok=false when the blob is not an object, the
// phase is unknown, or the surviving/eliminated lists are missing or malformed. All other
// fields fall back to their defaults when absent, of the wrong kind or out of range.
func Decode(blob []byte) (*domain.GameState, bool) {
	if len(blob) == 0 {
		return nil, false
	}
	var root structpb.Struct
	if err := protojson.Unmarshal(blob, &root); err != nil {
		return nil, false
	}
	fields := root.GetFields()

	phase, ok := stringValue(fields["phase"])
	if !ok || !domain.Phase(phase).Valid() {
		return nil, false
	}
	surviving, ok := degreeList(fields["survivingDegrees"])
	if !ok {
		return nil, false
	}
	eliminated, ok := degreeList(fields["eliminatedDegrees"])
	if !ok {
		return nil, false
	}

	state := domain.DefaultState()
	state.Phase = domain.Phase(phase)
	state.SurvivingDegrees = surviving
	state.EliminatedDegrees = eliminated

	if q, ok := matchList(fields["phase2Queue"]); ok {
		state.Phase2Queue = q
	}
	if q, ok := matchList(fields["bracketQueue"]); ok {
		state.BracketQueue = q
	}
	if q, ok := degreeList(fields["nextRoundQueue"]); ok {
		state.NextRoundQueue = q
	}
	if n, ok := intValue(fields["phase2TotalPairs"]); ok && n >= 0 {
		state.Phase2TotalPairs = n
	}
	if n, ok := intValue(fields["round"]); ok && n >= 1 {
		state.Round = n
	}
	if n, ok := intValue(fields["bracketTotal"]); ok && n >= 2 && domain.IsPowerOfTwo(n) {
		state.BracketTotal = n
	}
	if m, ok := match(fields["currentMatch"]); ok {
		state.CurrentMatch = &m
	}
	if w, ok := degree(fields["winner"]); ok {
		state.Winner = &w
	}
	return &state, true
}

func stringValue(v *structpb.Value) (string, bool) {
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}
	return s.StringValue, true
}

// maxCounter bounds decoded counters and indexes; anything larger is not a real save.
const maxCounter = math.MaxInt32

// intValue accepts whole numbers within ±maxCounter.
func intValue(v *structpb.Value) (int, bool) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := n.NumberValue
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > maxCounter {
		return 0, false
	}
	return int(f), true
}

// idValue accepts string ids and integral numeric ids.
func idValue(v *structpb.Value) (string, bool) {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, k.StringValue != ""
	case *structpb.Value_NumberValue:
		if k.NumberValue != math.Trunc(k.NumberValue) || math.Abs(k.NumberValue) > 1<<53 {
			return "", false
		}
		return strconv.FormatInt(int64(k.NumberValue), 10), true
	default:
		return "", false
	}
}

func localized(v *structpb.Value) domain.LocalizedText {
	obj, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		return nil
	}
	out := make(domain.LocalizedText, len(obj.StructValue.GetFields()))
	for locale, text := range obj.StructValue.GetFields() {
		if s, ok := stringValue(text); ok {
			out[locale] = s
		}
	}
	return out
}

func degree(v *structpb.Value) (domain.Degree, bool) {
	obj, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		return domain.Degree{}, false
	}
	fields := obj.StructValue.GetFields()
	id, ok := idValue(fields["id"])
	if !ok {
		return domain.Degree{}, false
	}
	d := domain.Degree{
		ID:          id,
		Name:        localized(fields["name"]),
		Description: localized(fields["description"]),
	}
	d.Category, _ = stringValue(fields["category"])
	if round, ok := stringValue(fields["round"]); ok {
		d.Round = domain.RoundTag(round)
	}
	if idx, ok := intValue(fields["eliminatedAtIndex"]); ok && idx >= 0 {
		d.EliminatedAtIndex = &idx
	}
	return d, true
}

func degreeList(v *structpb.Value) ([]domain.Degree, bool) {
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, false
	}
	values := list.ListValue.GetValues()
	out := make([]domain.Degree, 0, len(values))
	for _, item := range values {
		d, ok := degree(item)
		if !ok {
			return nil, false
		}
		out = append(out, d)
	}
	return out, true
}

func match(v *structpb.Value) (domain.Match, bool) {
	obj, ok := v.GetKind().(*structpb.Value_StructValue)
	if !ok {
		return domain.Match{}, false
	}
	fields := obj.StructValue.GetFields()
	a, ok := degree(fields["a"])
	if !ok {
		return domain.Match{}, false
	}
	b, ok := degree(fields["b"])
	if !ok {
		return domain.Match{}, false
	}
	return domain.Match{A: a, B: b}, true
}

func matchList(v *structpb.Value) ([]domain.Match, bool) {
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, false
	}
	values := list.ListValue.GetValues()
	out := make([]domain.Match, 0, len(values))
	for _, item := range values {
		m, ok := match(item)
		if !ok {
			return nil, false
		}
		out = append(out, m)
	}
	return out, true
}
