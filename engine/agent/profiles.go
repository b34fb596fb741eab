// Package agent turns game positions into feature vectors and picks moves
// by rating each successor with a trained classifier.
package agent

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProfile is returned by LookupProfile for names outside the table.
var ErrUnknownProfile = errors.New("unknown feature profile")

// FeatureGroup is an optional block of derived features. Enabled groups are
// always written in FeatureGroup order, whatever order a profile lists them in.
type FeatureGroup uint8

const (
	GroupPointsSquared        FeatureGroup = iota // 0: p1², p2²
	GroupDiffOverTotal                            // 1: ±(p1-p2)/total
	GroupDiffOverTotalSquared                     // 2: squares of group 1
	GroupPointDiff                                // 3: ±(p1-p2)
	GroupAceOneHot                                // 4: aces in hand, 5 buckets
	GroupMarriageOneHot                           // 5: any marriage move available
	GroupTrumpOneHot                              // 6: trumps in hand, 6 buckets
	GroupPointsToWin                              // 7: 66-p1, 66-p2
	GroupPointsToWinSquared                       // 8: squares of group 7
	GroupHandPointsOverToWin                      // 9: hand points / distance to 66

	NumFeatureGroups = 10
)

var groupNames = [NumFeatureGroups]string{
	"points squared",
	"point_diff/total",
	"point_diff/total2",
	"point_diff",
	"ace one hot",
	"marriage one hot",
	"trump one hot",
	"points to win",
	"points to win2",
	"points in hand/points to win",
}

var groupWidths = [NumFeatureGroups]int{2, 2, 2, 2, 5, 2, 6, 2, 2, 1}

func (g FeatureGroup) String() string {
	if g >= NumFeatureGroups {
		return fmt.Sprintf("FeatureGroup(%d)", uint8(g))
	}
	return groupNames[g]
}

// Width returns the number of features g contributes.
func (g FeatureGroup) Width() int { return groupWidths[g] }

// Profile selects which feature groups follow the base vector. Obtain one
// from LookupProfile or NewProfile; the zero Profile is unnamed and a Bot
// refuses it.
type Profile struct {
	name    string
	enabled [NumFeatureGroups]bool
}

// Name returns the profile's table name.
func (p Profile) Name() string { return p.name }

// Has reports whether g is enabled.
func (p Profile) Has(g FeatureGroup) bool { return g < NumFeatureGroups && p.enabled[g] }

// Groups returns the enabled groups in encoding order.
func (p Profile) Groups() []FeatureGroup {
	var out []FeatureGroup
	for g := FeatureGroup(0); g < NumFeatureGroups; g++ {
		if p.enabled[g] {
			out = append(out, g)
		}
	}
	return out
}

// Dim returns the feature-vector length for p.
func (p Profile) Dim() int {
	n := BaseDim + TailDim
	for _, g := range p.Groups() {
		n += g.Width()
	}
	return n
}

func (p Profile) String() string {
	names := make([]string, 0, NumFeatureGroups)
	for _, g := range p.Groups() {
		names = append(names, g.String())
	}
	return fmt.Sprintf("%s[%s]", p.name, strings.Join(names, ", "))
}

// NewProfile builds an ad-hoc profile. Duplicate groups are ignored.
func NewProfile(name string, groups ...FeatureGroup) (Profile, error) {
	p := Profile{name: name}
	for _, g := range groups {
		if g >= NumFeatureGroups {
			return Profile{}, fmt.Errorf("profile %q: invalid feature group %d", name, uint8(g))
		}
		p.enabled[g] = true
	}
	return p, nil
}

type profileEntry struct {
	name   string
	groups []FeatureGroup
}

// profileTable is the registry of named profiles. Each trained model artifact
// carries the name of the profile it was fitted on.
var profileTable = []profileEntry{
	{"model", nil},
	{"model1", nil},
	{"model2", []FeatureGroup{GroupDiffOverTotal}},
	{"model3", []FeatureGroup{GroupAceOneHot}},
	{"model4", []FeatureGroup{GroupDiffOverTotal, GroupAceOneHot}},
	{"model5", []FeatureGroup{GroupTrumpOneHot}},
	{"model6", []FeatureGroup{GroupTrumpOneHot, GroupDiffOverTotal}},
	{"model7", []FeatureGroup{GroupTrumpOneHot, GroupDiffOverTotal, GroupAceOneHot}},
	{"model8", nil},
	{"model9", []FeatureGroup{GroupDiffOverTotal}},
	{"model10", []FeatureGroup{GroupPointsToWin}},
	{"model11", []FeatureGroup{GroupHandPointsOverToWin}},
	{"model12", []FeatureGroup{GroupPointsToWin}},
	{"model13", []FeatureGroup{GroupDiffOverTotal, GroupPointsToWin}},
	{"model14", []FeatureGroup{GroupPointsSquared}},
	{"model15", []FeatureGroup{GroupPointsSquared, GroupDiffOverTotal, GroupPointsToWin}},
	{"model16", []FeatureGroup{GroupDiffOverTotal, GroupDiffOverTotalSquared, GroupPointsToWin, GroupPointsToWinSquared}},
	{"model17", []FeatureGroup{GroupDiffOverTotalSquared}},
	{"model18", []FeatureGroup{GroupPointsToWinSquared}},
	{"model19", []FeatureGroup{GroupDiffOverTotal, GroupPointsToWin}},
	{"model20", []FeatureGroup{GroupPointDiff}},
	{"model21", []FeatureGroup{
		GroupDiffOverTotal, GroupDiffOverTotalSquared, GroupPointsToWin, GroupPointsToWinSquared,
		GroupPointDiff, GroupHandPointsOverToWin, GroupTrumpOneHot, GroupAceOneHot, GroupPointsSquared,
	}},
	{"model22", []FeatureGroup{GroupDiffOverTotal, GroupPointsToWin, GroupPointDiff}},
	{"model23", []FeatureGroup{GroupDiffOverTotal, GroupPointsToWin, GroupPointDiff}},
}

// DefaultProfile is the profile the bot ships with.
const DefaultProfile = "model22"

// LookupProfile returns the named profile from the table.
func LookupProfile(name string) (Profile, error) {
	for _, e := range profileTable {
		if e.name == name {
			return NewProfile(e.name, e.groups...)
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// ProfileNames lists every table profile in registry order.
func ProfileNames() []string {
	names := make([]string, len(profileTable))
	for i, e := range profileTable {
		names[i] = e.name
	}
	return names
}
