package content

// concept is a keyword-triggered topic bundle used to build quiz questions.
type concept struct {
	Name      string
	Kind      string
	Triggers  []string
	Context   string
	KeyPoints []string
}

// Question kinds.
const (
	kindDefinition  = "definition"
	kindApplication = "application"
	kindProcess     = "process"
	kindImportance  = "importance"
	kindComparison  = "comparison"
	kindChallenge   = "challenge"
)

const quizTitle = "Advanced Data Mining Concepts Quiz"

// rules holds the static tables the quiz generator works from.
type rules struct {
	concepts          []concept
	templates         map[string][]string
	keypointTemplates []string
	conceptDistractor map[string][]string
	kindDistractor    map[string][]string
	genericDistractor []string
}

func buildRules() *rules {
	return &rules{
		concepts: []concept{
			{
				Name:      "Data Mining",
				Kind:      kindDefinition,
				Triggers:  []string{"data mining", "discovering knowledge", "patterns"},
				Context:   "Data Mining is the process of discovering knowledge from data through statistical techniques, machine learning, and artificial intelligence to find meaningful patterns, trends, and relationships.",
				KeyPoints: []string{"knowledge discovery", "statistical techniques", "machine learning", "pattern recognition"},
			},
			{
				Name:      "Data Mining Importance",
				Kind:      kindImportance,
				Triggers:  []string{"important", "hidden patterns", "decision making"},
				Context:   "Data Mining is important because it helps discover hidden patterns in big data, support smart business decision making, and optimize operational processes.",
				KeyPoints: []string{"hidden patterns", "business decisions", "operational optimization"},
			},
			{
				Name:      "Data Growth",
				Kind:      kindChallenge,
				Triggers:  []string{"terabytes", "petabytes", "data explosion"},
				Context:   "The Explosive Growth of Data: from terabytes to petabytes. Automated data collection tools, database systems, the Web, computerized society.",
				KeyPoints: []string{"terabytes to petabytes", "automated collection", "multiple data sources"},
			},
			{
				Name:      "KDD Process",
				Kind:      kindProcess,
				Triggers:  []string{"kdd", "knowledge discovery", "data cleaning"},
				Context:   "KDD Process: Data Cleaning, Data Integration, Data Selection, Data Mining, Pattern Evaluation. This is a view from typical database systems and data warehousing communities.",
				KeyPoints: []string{"data cleaning", "data integration", "pattern evaluation", "knowledge discovery"},
			},
			{
				Name:      "Data Mining Techniques",
				Kind:      kindApplication,
				Triggers:  []string{"classification", "clustering", "association"},
				Context:   "Data mining includes techniques such as classification, clustering, association rule discovery, and prediction. Applications in many fields from marketing, healthcare, to finance and security.",
				KeyPoints: []string{"classification", "clustering", "association rules", "prediction"},
			},
			{
				Name:      "Data Mining Challenges",
				Kind:      kindChallenge,
				Triggers:  []string{"challenge", "scalable", "high-dimensional"},
				Context:   "Challenges include tremendous amount of data, algorithms must be highly scalable, high-dimensionality of data, and high complexity of data including data streams and sensor data.",
				KeyPoints: []string{"scalability", "high-dimensional data", "data complexity", "algorithm efficiency"},
			},
			{
				Name:      "Business Intelligence",
				Kind:      kindApplication,
				Triggers:  []string{"business intelligence", "decision making", "data analysis"},
				Context:   "Data Mining in Business Intelligence: Increasing potential to support business decisions through data presentation, visualization techniques, and information discovery.",
				KeyPoints: []string{"business decisions", "data visualization", "information discovery"},
			},
		},
		templates: map[string][]string{
			kindDefinition: {
				"What is the primary definition of %s?",
				"How is %s formally defined in data mining?",
				"Which description accurately defines %s?",
				"What characterizes %s in the context of data analysis?",
			},
			kindApplication: {
				"In which specific field is %s most effectively applied?",
				"What is a key real-world application of %s?",
				"Which industry scenario best demonstrates %s?",
				"How is %s utilized in business intelligence?",
			},
			kindProcess: {
				"What is the correct sequence in the %s?",
				"Which step is crucial but often overlooked in %s?",
				"What initiates the %s in data mining?",
				"How does %s contribute to knowledge discovery?",
			},
			kindImportance: {
				"Why has %s become increasingly important?",
				"What major problem does %s help solve?",
				"How does %s impact decision-making processes?",
				"What value does %s add to data analysis?",
			},
			kindComparison: {
				"How does %s differ from traditional methods?",
				"What distinguishes %s from similar approaches?",
				"What unique advantage does %s offer?",
				"How is %s different from manual data analysis?",
			},
			kindChallenge: {
				"What is the main challenge associated with %s?",
				"What limitation does %s face with big data?",
				"What technical obstacle must %s overcome?",
				"Why is %s difficult to implement at scale?",
			},
		},
		keypointTemplates: []string{
			"What are the main components of %s?",
			"Which elements are essential in %s?",
			"What characterizes an effective %s?",
			"How is %s typically implemented?",
		},
		conceptDistractor: map[string][]string{
			"Data Mining": {
				"Manual data entry and recording",
				"Simple data storage and retrieval",
				"Basic spreadsheet calculations",
				"Data deletion and archiving processes",
			},
			"Data Mining Importance": {
				"Reduces the amount of data collected",
				"Eliminates the need for human analysis",
				"Focuses only on data storage efficiency",
				"Primarily used for data backup purposes",
			},
			"KDD Process": {
				"Data creation and initialization",
				"Information deletion phase",
				"Hardware maintenance procedures",
				"Network configuration steps",
			},
			"Data Mining Techniques": {
				"Data compression algorithms only",
				"Hardware troubleshooting methods",
				"User interface design principles",
				"Network security protocols",
			},
		},
		kindDistractor: map[string][]string{
			kindDefinition: {
				"A type of hardware component",
				"Related to physical data storage only",
				"A programming language feature",
				"A network protocol standard",
			},
			kindImportance: {
				"It makes data analysis more complicated",
				"It reduces data accuracy over time",
				"It requires more manual intervention",
				"It decreases computational efficiency",
			},
			kindProcess: {
				"Starts with data deletion",
				"Focuses on hardware maintenance",
				"Eliminates the need for cleaning",
				"Requires manual data entry first",
			},
		},
		genericDistractor: []string{
			"Not directly related to the concept",
			"Opposite of the actual approach",
			"A common misconception in the field",
		},
	}
}

// match returns the concepts whose triggers occur in text, in table order.
func (r *rules) match(text string) []concept {
	var out []concept
	for _, c := range r.concepts {
		if containsAny(text, c.Triggers) {
			out = append(out, c)
		}
	}
	return out
}
