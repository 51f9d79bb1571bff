// Package project persists the editable state of an estimate: the network
// structure with its marginals and conditions, and the user inputs. Sampling
// and cost results are never part of it; they are exported separately.
package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/pavecost/condition"
	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/dist"
)

// FormatVersion is written into every saved state.
const FormatVersion = 1

var (
	ErrUnknownFormat      = errors.New("project: unknown file format")
	ErrUnsupportedVersion = errors.New("project: unsupported format version")
)

// Format is a serialisation format.
type Format uint8

const (
	YAML Format = iota + 1
	JSON
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// EdgeState is one incoming edge, in parent order.
type EdgeState struct {
	Parent       string  `json:"parent" yaml:"parent"`
	CondRankCorr float64 `json:"cond_rank_corr" yaml:"cond_rank_corr"`
}

// NodeState is one persisted node.
type NodeState struct {
	Name         string      `json:"name" yaml:"name"`
	Distribution dist.Family `json:"distribution" yaml:"distribution"`
	ParamsSmall  []float64   `json:"params_small" yaml:"params_small,flow"`
	ParamsLarge  []float64   `json:"params_large" yaml:"params_large,flow"`
	Condition    string      `json:"condition,omitempty" yaml:"condition,omitempty"`
	X            float64     `json:"x" yaml:"x"`
	Y            float64     `json:"y" yaml:"y"`
	Parents      []EdgeState `json:"parents,omitempty" yaml:"parents,omitempty"`
}

// State is the persisted project.
type State struct {
	Version int              `json:"version" yaml:"version"`
	Inputs  condition.Inputs `json:"inputs" yaml:"inputs"`
	Nodes   []NodeState      `json:"nodes" yaml:"nodes"`
}

// Capture snapshots net and in.
func Capture(net *core.Network, in condition.Inputs) *State {
	nodes := net.Nodes()
	s := &State{Version: FormatVersion, Inputs: in, Nodes: make([]NodeState, len(nodes))}
	for i, nd := range nodes {
		ns := NodeState{
			Name:         nd.Name,
			Distribution: nd.Distribution,
			ParamsSmall:  nd.ParamsSmall,
			ParamsLarge:  nd.ParamsLarge,
			X:            nd.X,
			Y:            nd.Y,
		}
		if nd.Conditioned() {
			ns.Condition = nd.Condition
		}
		for _, e := range nd.Edges {
			ns.Parents = append(ns.Parents, EdgeState{Parent: e.Parent, CondRankCorr: e.CondRankCorr})
		}
		s.Nodes[i] = ns
	}

	return s
}

// Restore replaces the structure of net with s in one commit.
func (s *State) Restore(net *core.Network) error {
	nodes := make([]core.Node, len(s.Nodes))
	for i, ns := range s.Nodes {
		nd := core.Node{
			Name:         ns.Name,
			Distribution: ns.Distribution,
			ParamsSmall:  ns.ParamsSmall,
			ParamsLarge:  ns.ParamsLarge,
			Condition:    ns.Condition,
			X:            ns.X,
			Y:            ns.Y,
		}
		for _, e := range ns.Parents {
			nd.Edges = append(nd.Edges, core.Edge{Parent: e.Parent, Child: ns.Name, CondRankCorr: e.CondRankCorr})
		}
		nodes[i] = nd
	}
	if err := net.Replace(nodes); err != nil {
		return fmt.Errorf("project: restore: %w", err)
	}

	return nil
}

// Network builds a fresh network from s.
func (s *State) Network(opts ...core.Option) (*core.Network, error) {
	net := core.NewNetwork(opts...)
	if err := s.Restore(net); err != nil {
		return nil, err
	}

	return net, nil
}

// Encode writes s in format f.
func Encode(w io.Writer, f Format, s *State) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("project: encode yaml: %w", err)
		}

		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("project: encode json: %w", err)
		}

		return nil
	default:
		return ErrUnknownFormat
	}
}

// Decode reads a state in format f.
func Decode(r io.Reader, f Format) (*State, error) {
	var s State
	switch f {
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("project: decode yaml: %w", err)
		}
	case JSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("project: decode json: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	if s.Version != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}

	return &s, nil
}

// Save writes s to path, choosing the format from the extension.
func Save(path string, s *State) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err = Encode(&buf, f, s); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Load reads a state from path.
func Load(path string) (*State, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	defer fh.Close()

	return Decode(fh, f)
}
