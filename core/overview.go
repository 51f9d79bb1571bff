package core

// EdgeRow is one line of the flattened edge overview. Index is the flat
// position accepted by ChangeParentOrder.
type EdgeRow struct {
	Index        int
	Parent       string
	Child        string
	ParentPos    int
	RankCorr     float64
	CondRankCorr float64
	Low          float64
	High         float64
	Label        string
}

// EdgeOverview returns the cached overview: children in network order,
// parents in parent order.
func (n *Network) EdgeOverview() []EdgeRow {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]EdgeRow(nil), n.overview...)
}

// buildOverview flattens the edges (mu held).
func (n *Network) buildOverview() []EdgeRow {
	var rows []EdgeRow
	for _, nd := range n.nodes {
		for j, e := range nd.Edges {
			rows = append(rows, EdgeRow{
				Index:        len(rows),
				Parent:       e.Parent,
				Child:        e.Child,
				ParentPos:    j,
				RankCorr:     e.RankCorr,
				CondRankCorr: e.CondRankCorr,
				Low:          e.Bounds.Low,
				High:         e.Bounds.High,
				Label:        e.Label(),
			})
		}
	}

	return rows
}

// refreshOverview rebuilds the cache after an edit that skips recomputation.
func (n *Network) refreshOverview() {
	n.overview = n.buildOverview()
}
