package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/patrikeh/go-deep"
)

// NetworkOracle serves class probabilities from a go-deep multi-class network.
// A forward pass writes activations into the network's neurons, so calls are
// serialised; the oracle is safe to share between goroutines.
type NetworkOracle struct {
	mu      sync.Mutex
	net     *deep.Neural
	classes []string
}

var _ Oracle = (*NetworkOracle)(nil)

// NewNetworkOracle wraps net, whose output layer must have one softmax unit
// per class.
func NewNetworkOracle(net *deep.Neural, classes []string) (*NetworkOracle, error) {
	if net == nil || net.Config == nil {
		return nil, fmt.Errorf("network oracle: nil network")
	}
	if net.Config.Mode != deep.ModeMultiClass {
		return nil, fmt.Errorf("network oracle: mode %d does not produce class probabilities", net.Config.Mode)
	}
	layout := net.Config.Layout
	if len(layout) == 0 || layout[len(layout)-1] != len(classes) {
		return nil, fmt.Errorf("%w: network layout %v, %d classes", ErrClassMismatch, layout, len(classes))
	}
	return &NetworkOracle{net: net, classes: slices.Clone(classes)}, nil
}

// Classes returns the class labels in output order.
func (o *NetworkOracle) Classes() []string { return slices.Clone(o.classes) }

// Inputs returns the feature-vector length the network was fitted on.
func (o *NetworkOracle) Inputs() int { return o.net.Config.Inputs }

// PredictProba runs one forward pass.
func (o *NetworkOracle) PredictProba(features []float64) ([]float64, error) {
	if len(features) != o.net.Config.Inputs {
		return nil, fmt.Errorf("%w: network takes %d inputs, got %d", ErrDimensionMismatch, o.net.Config.Inputs, len(features))
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.net.Predict(features), nil
}

// Artifact is the on-disk form of a trained oracle: the network dump plus
// the class labels and feature profile it was fitted with.
type Artifact struct {
	Name    string     `json:"name"`
	Profile string     `json:"profile"`
	Classes []string   `json:"classes"`
	Network *deep.Dump `json:"network"`
}

// ArtifactExt is the file extension of serialized artifacts.
const ArtifactExt = ".json"

// ArtifactPath returns dir/name.json.
func ArtifactPath(dir, name string) string {
	return filepath.Join(dir, name+ArtifactExt)
}

// NewArtifact captures o's current weights under name, tagged with p.
func NewArtifact(name string, p Profile, o *NetworkOracle) *Artifact {
	o.mu.Lock()
	defer o.mu.Unlock()
	return &Artifact{
		Name:    name,
		Profile: p.Name(),
		Classes: slices.Clone(o.classes),
		Network: o.net.Dump(),
	}
}

// LoadArtifact reads dir/name.json.
func LoadArtifact(dir, name string) (*Artifact, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid model name %q", name)
	}
	path := ArtifactPath(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", name, err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if a.Network == nil || a.Network.Config == nil {
		return nil, fmt.Errorf("decode model %s: missing network", path)
	}
	if len(a.Classes) == 0 {
		return nil, fmt.Errorf("decode model %s: missing classes", path)
	}
	if a.Profile == "" {
		return nil, fmt.Errorf("decode model %s: missing profile", path)
	}
	if a.Name == "" {
		a.Name = name
	}
	return &a, nil
}

// SaveArtifact writes a to dir/<a.Name>.json, creating dir if needed.
func SaveArtifact(dir string, a *Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save model %s: %w", a.Name, err)
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode model %s: %w", a.Name, err)
	}
	return os.WriteFile(ArtifactPath(dir, a.Name), data, 0o644)
}

// Oracle rebuilds the network and checks that it was fitted on p.
func (a *Artifact) Oracle(p Profile) (*NetworkOracle, error) {
	if a.Profile != p.Name() {
		return nil, fmt.Errorf("model %s was trained with profile %s, not %s", a.Name, a.Profile, p.Name())
	}
	cfg := *a.Network.Config
	if cfg.Inputs != p.Dim() {
		return nil, fmt.Errorf("%w: model %s takes %d inputs, profile %s produces %d",
			ErrDimensionMismatch, a.Name, cfg.Inputs, p.Name(), p.Dim())
	}
	if len(cfg.Layout) == 0 || slices.ContainsFunc(cfg.Layout, func(n int) bool { return n <= 0 }) {
		return nil, fmt.Errorf("model %s: bad layout %v", a.Name, cfg.Layout)
	}
	cfg.Layout = slices.Clone(cfg.Layout)

	net := deep.NewNeural(&cfg)
	if err := sameShape(net.Weights(), a.Network.Weights); err != nil {
		return nil, fmt.Errorf("model %s: %w", a.Name, err)
	}
	net.ApplyWeights(a.Network.Weights)
	return NewNetworkOracle(net, a.Classes)
}

// LoadOracle loads dir/name.json and rebuilds its network for p.
func LoadOracle(dir, name string, p Profile) (*NetworkOracle, error) {
	a, err := LoadArtifact(dir, name)
	if err != nil {
		return nil, err
	}
	return a.Oracle(p)
}

// sameShape reports whether got can be applied to a network shaped like want.
func sameShape(want, got [][][]float64) error {
	if len(want) != len(got) {
		return fmt.Errorf("weights have %d layers, network has %d", len(got), len(want))
	}
	for i := range want {
		if len(want[i]) != len(got[i]) {
			return fmt.Errorf("layer %d has %d neurons, network has %d", i, len(got[i]), len(want[i]))
		}
		for j := range want[i] {
			if len(want[i][j]) != len(got[i][j]) {
				return fmt.Errorf("layer %d neuron %d has %d weights, network has %d", i, j, len(got[i][j]), len(want[i][j]))
			}
		}
	}
	return nil
}
