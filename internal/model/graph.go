package model

// GraphNode is a renderable node in the knowledge graph
type GraphNode struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Type       string  `json:"type"` // "theme" or "gap"
	Size       float64 `json:"size"`
	Color      string  `json:"color"`
	Density    float64 `json:"density,omitempty"`
	ClaimCount int     `json:"claim_count,omitempty"`
	IsGap      bool    `json:"is_gap,omitempty"`
}

// GraphEdge connects two graph nodes
type GraphEdge struct {
	ID       string  `json:"id"`
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Label    string  `json:"label"`
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
	Color    string  `json:"color"`
}

// GraphData is the exportable knowledge graph of an analysis
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}
