package core_test

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/pavecost/core"
)

// ExampleNetwork_AddEdge shows the cycle rejection of a directly reversed edge.
func ExampleNetwork_AddEdge() {
	net := core.NewNetwork()
	_ = net.AddNode("pax")
	_ = net.AddNode("Mvts")

	fmt.Println(net.AddEdge("pax", "Mvts"))
	err := net.AddEdge("Mvts", "pax")
	fmt.Println(errors.Is(err, core.ErrCycleRejected), len(net.Edges()))

	// Output:
	// <nil>
	// true 1
}

// ExampleNetwork_ChangeObservedCorrelation shows the interval reported for a
// rejected edit.
func ExampleNetwork_ChangeObservedCorrelation() {
	net := core.NewNetwork()
	_ = net.AddNode("AC code")
	_ = net.AddNode("L_RWY", core.WithParents([]string{"AC code"}, []float64{0.9}))
	_ = net.AddNode("A_Apron", core.WithParents([]string{"AC code", "L_RWY"}, []float64{0.9, 0}))

	err := net.ChangeObservedCorrelation("L_RWY", "A_Apron", -0.2)
	var be *core.BoundsError
	if errors.As(err, &be) {
		fmt.Printf("rejected, allowed [%.2f, %.2f]\n", be.Low, be.High)
	}

	// Output:
	// rejected, allowed [0.63, 1.00]
}
