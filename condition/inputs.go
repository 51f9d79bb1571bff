package condition

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/pavecost/core"
	"github.com/katalvlaran/pavecost/ctxlog"
)

// Names of the network nodes written by Apply.
const (
	NodeACCode        = "AC code"
	NodeMovements     = "Mvts"
	NodePassengers    = "pax"
	NodeRunwayLength  = "L_RWY"
	NodeTaxiwayLength = "L_TWY"
	NodeApronArea     = "A_Apron"
	NodeTurnpads      = "#Tpds"
	NodeRunways       = "#RWY"
	NodeExits         = "#Exits"
)

var (
	// ErrInvalidInputs is returned by Validate and Apply for inputs that
	// fail their struct constraints.
	ErrInvalidInputs = errors.New("condition: invalid inputs")

	// ErrUnparsableInput marks a node condition that is not a number.
	ErrUnparsableInput = errors.New("condition: unparsable input")
)

// validate is a singleton validator instance
var validate = validator.New()

// ILSCategory selects the instrument landing system add-on.
type ILSCategory string

const (
	ILSNone   ILSCategory = ""
	ILSCatI   ILSCategory = "Cat I"
	ILSCatIII ILSCategory = "Cat II/III"
)

// Project holds the airport characteristics. A nil field is unknown and
// leaves its node free for sampling.
type Project struct {
	AnnualOperations      *float64 `json:"annual_operations,omitempty" yaml:"annual_operations,omitempty" validate:"omitempty,gte=0"`
	AnnualPassengers      *float64 `json:"annual_passengers,omitempty" yaml:"annual_passengers,omitempty" validate:"omitempty,gte=0"`
	RunwayLength          *float64 `json:"runway_length,omitempty" yaml:"runway_length,omitempty" validate:"omitempty,gt=0"`
	Runways               *float64 `json:"runways,omitempty" yaml:"runways,omitempty" validate:"omitempty,gte=0"`
	EntriesExits          *float64 `json:"entries_exits,omitempty" yaml:"entries_exits,omitempty" validate:"omitempty,gte=0"`
	RelativeTaxiwayLength *float64 `json:"relative_taxiway_length,omitempty" yaml:"relative_taxiway_length,omitempty" validate:"omitempty,gte=0"`
	ApronArea             *float64 `json:"apron_area,omitempty" yaml:"apron_area,omitempty" validate:"omitempty,gte=0"`
}

// Prices are free-text material prices per cubic metre, e.g. "160 EUR".
// Blank or "n.a." means unspecified.
type Prices struct {
	Concrete string `json:"concrete,omitempty" yaml:"concrete,omitempty" validate:"max=64"`
	Asphalt  string `json:"asphalt,omitempty" yaml:"asphalt,omitempty" validate:"max=64"`
	CTB      string `json:"ctb,omitempty" yaml:"ctb,omitempty" validate:"max=64"`
	Sand     string `json:"sand,omitempty" yaml:"sand,omitempty" validate:"max=64"`
}

// AddOns are the optional airfield items.
type AddOns struct {
	ILS          ILSCategory `json:"ils,omitempty" yaml:"ils,omitempty" validate:"omitempty,oneof='Cat I' 'Cat II/III'"`
	ControlTower bool        `json:"control_tower,omitempty" yaml:"control_tower,omitempty"`
	Turnpads     bool        `json:"turnpads,omitempty" yaml:"turnpads,omitempty"`
	TurnpadCount *float64    `json:"turnpad_count,omitempty" yaml:"turnpad_count,omitempty" validate:"omitempty,gte=0"`
}

// Inputs is everything the user supplies for one estimate.
type Inputs struct {
	Name    string  `json:"name,omitempty" yaml:"name,omitempty" validate:"max=128"`
	ACCode  string  `json:"ac_code,omitempty" yaml:"ac_code,omitempty" validate:"max=16"`
	Project Project `json:"project" yaml:"project"`
	Prices  Prices  `json:"prices" yaml:"prices"`
	AddOns  AddOns  `json:"add_ons" yaml:"add_ons"`
}

// Float is a helper for building Inputs literals.
func Float(v float64) *float64 { return &v }

// Validate checks the struct constraints of in.
func Validate(in *Inputs) error {
	if in == nil {
		return fmt.Errorf("%w: nil inputs", ErrInvalidInputs)
	}
	if err := validate.Struct(in); err != nil {
		return formatValidationError(err)
	}

	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidInputs, err)
	}
	e := verrs[0]
	switch e.Tag() {
	case "gte", "gt":
		return fmt.Errorf("%w: %s must be %s %s", ErrInvalidInputs, e.Namespace(), e.Tag(), e.Param())
	case "max":
		return fmt.Errorf("%w: %s must not exceed %s characters", ErrInvalidInputs, e.Namespace(), e.Param())
	case "oneof":
		return fmt.Errorf("%w: %s must be one of %s", ErrInvalidInputs, e.Namespace(), e.Param())
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidInputs, e.Namespace(), e.Tag())
	}
}

// Conditions maps node names to the condition strings Apply writes.
// Blank values become core.NotApplicable.
func (in *Inputs) Conditions() map[string]string {
	out := map[string]string{
		NodeACCode:        orNA(in.ACCode),
		NodeMovements:     formatOpt(in.Project.AnnualOperations),
		NodePassengers:    formatOpt(in.Project.AnnualPassengers),
		NodeRunwayLength:  formatOpt(in.Project.RunwayLength),
		NodeTaxiwayLength: formatOpt(in.Project.RelativeTaxiwayLength),
		NodeApronArea:     formatOpt(in.Project.ApronArea),
		NodeRunways:       formatOpt(in.Project.Runways),
		NodeExits:         formatOpt(in.Project.EntriesExits),
		NodeTurnpads:      "0",
	}
	if in.AddOns.Turnpads {
		out[NodeTurnpads] = formatOpt(in.AddOns.TurnpadCount)
	}

	return out
}

// applyOrder fixes the order in which conditions are written.
var applyOrder = []string{
	NodeACCode, NodeMovements, NodePassengers, NodeRunwayLength, NodeTaxiwayLength,
	NodeApronArea, NodeTurnpads, NodeRunways, NodeExits,
}

// Apply validates in and writes its conditions onto net. Nodes missing from
// the network are skipped.
func Apply(ctx context.Context, net *core.Network, in *Inputs) error {
	if err := Validate(in); err != nil {
		return err
	}
	log := ctxlog.FromContext(ctx)
	conds := in.Conditions()
	for _, name := range applyOrder {
		err := net.SetCondition(name, conds[name])
		switch {
		case errors.Is(err, core.ErrNodeNotFound):
			log.Debug("condition target missing, skipped", "node", name)
		case err != nil:
			return fmt.Errorf("condition: apply %s: %w", name, err)
		}
	}

	return nil
}

func orNA(s string) string {
	if s == "" {
		return core.NotApplicable
	}

	return s
}

func formatOpt(v *float64) string {
	if v == nil {
		return core.NotApplicable
	}

	return strconv.FormatFloat(*v, 'g', -1, 64)
}
