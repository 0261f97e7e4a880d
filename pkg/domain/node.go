package domain

// Flag names a boolean raised in SessionState when a node is selected.
type Flag string

const (
	FlagDemoShown         Flag = "demo_shown"
	FlagReadyForSales     Flag = "ready_for_sales"
	FlagProposalRequested Flag = "proposal_requested"
)

// Node represents a scripted intent of the sales dialogue.
type Node struct {
	// Tag is the unique identifier of the intent (e.g. "pricing").
	Tag string `json:"tag" yaml:"tag" mapstructure:"tag"`

	// Patterns are the trigger phrases, compared case-insensitively.
	Patterns []string `json:"patterns" yaml:"patterns" mapstructure:"patterns"`

	// Responses holds the candidate replies. The first one is used.
	Responses []string `json:"responses" yaml:"responses" mapstructure:"responses"`

	// Followups lists tags of nodes suggested after this one.
	Followups []string `json:"followups,omitempty" yaml:"followups,omitempty" mapstructure:"followups"`

	// Flags are raised in the session state when this node is selected.
	Flags []Flag `json:"flags,omitempty" yaml:"flags,omitempty" mapstructure:"flags"`
}

// Response returns the reply used for this node.
func (n Node) Response() string {
	if len(n.Responses) == 0 {
		return ""
	}
	return n.Responses[0]
}

// Intent tags referenced by the engine.
const (
	TagAboutJavaNet      = "about_javanet"
	TagSchoolType        = "school_type"
	TagTrainingType      = "training_type"
	TagUniversityType    = "university_type"
	TagGovernmentType    = "government_type"
	TagCompanyType       = "company_type"
	TagModules           = "modules"
	TagPriorityModule    = "priority_module"
	TagPricing           = "pricing"
	TagDeploymentCountry = "deployment_country"
	TagUserVolume        = "user_volume"
	TagDemo              = "demo"
	TagDemoYes           = "demo_yes"
	TagLeadCapture       = "lead_capture"
	TagGenerateProposal  = "generate_proposal"
	TagScheduleCall      = "schedule_call"
	TagSendEmail         = "send_email"
	TagWhatsAppContact   = "whatsapp_contact"
	TagCBTTests          = "cbt_tests"
	TagVirtualClassroom  = "virtual_classroom"
	TagGreeting          = "greeting"
	TagGoodbye           = "goodbye"

	// TagOutOfScope is reported for utterances rejected by the relevance filter.
	// No catalog node carries it.
	TagOutOfScope = "out_of_scope"

	// TagUnknown is reported when an in-domain utterance matches nothing and
	// the catalog has no greeting node to default to.
	TagUnknown = "unknown"
)

// Catalog is an immutable, ordered collection of nodes.
// Order matters: pattern matching scans nodes in catalog order.
type Catalog struct {
	Name    string
	Version string
	nodes   []Node
	index   map[string]int
}

// NewCatalog builds a catalog from nodes, keeping their order.
// When two nodes share a tag the first one wins the index.
func NewCatalog(name, version string, nodes []Node) *Catalog {
	c := &Catalog{
		Name:    name,
		Version: version,
		nodes:   make([]Node, len(nodes)),
		index:   make(map[string]int, len(nodes)),
	}
	copy(c.nodes, nodes)
	for i, n := range c.nodes {
		if _, dup := c.index[n.Tag]; !dup {
			c.index[n.Tag] = i
		}
	}
	return c
}

// Nodes returns a copy of the nodes in catalog order.
func (c *Catalog) Nodes() []Node {
	out := make([]Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Len returns the number of nodes.
func (c *Catalog) Len() int {
	return len(c.nodes)
}

// Lookup returns the node with the given tag.
func (c *Catalog) Lookup(tag string) (Node, bool) {
	i, ok := c.index[tag]
	if !ok {
		return Node{}, false
	}
	return c.nodes[i], true
}

// Tags returns the node tags in catalog order.
func (c *Catalog) Tags() []string {
	tags := make([]string, len(c.nodes))
	for i, n := range c.nodes {
		tags[i] = n.Tag
	}
	return tags
}
