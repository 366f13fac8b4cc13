package locator

// StatementType names one of the three financial statements.
type StatementType string

const (
	Balance  StatementType = "balance"
	Income   StatementType = "income"
	CashFlow StatementType = "cash_flow"
)

// StatementTypes lists every statement in reporting order.
var StatementTypes = []StatementType{Balance, Income, CashFlow}

// Language selects an indicator set.
type Language string

const (
	English Language = "EN"
	Spanish Language = "ES"
)

// Metrics holds the five highest distinct-indicator counts seen across all
// windows of a scan. Values are non-increasing.
type Metrics struct {
	FirstUniqueHits  int `json:"first_unique_hits" yaml:"first_unique_hits"`
	SecondUniqueHits int `json:"second_unique_hits" yaml:"second_unique_hits"`
	ThirdUniqueHits  int `json:"third_unique_hits" yaml:"third_unique_hits"`
	FourthUniqueHits int `json:"fourth_unique_hits" yaml:"fourth_unique_hits"`
	FifthUniqueHits  int `json:"fifth_unique_hits" yaml:"fifth_unique_hits"`
}

// ScanResult is the outcome of sliding the window over one document for one
// indicator set. BestStart is a rune offset into the folded text.
type ScanResult struct {
	Metrics    Metrics
	BestStart  int
	Indicators []string
}

// ChunkResult is the located excerpt for one statement. Start and the chunk
// length are measured in runes of the original content.
type ChunkResult struct {
	Chunk      string   `json:"chunk" yaml:"chunk"`
	Start      int      `json:"start" yaml:"start"`
	Metrics    Metrics  `json:"metrics" yaml:"metrics"`
	Indicators []string `json:"indicators" yaml:"indicators"`
	Cleaned    string   `json:"cleaned" yaml:"cleaned"`
	Units      int64    `json:"units" yaml:"units"`
}

// Output is the result of Preprocess.
type Output struct {
	Balance  ChunkResult `json:"balance_result" yaml:"balance_result"`
	Income   ChunkResult `json:"income_result" yaml:"income_result"`
	CashFlow ChunkResult `json:"cash_flow_result" yaml:"cash_flow_result"`
	Language Language    `json:"language" yaml:"language"`
}

// Result returns the chunk for statement t.
func (o *Output) Result(t StatementType) ChunkResult {
	switch t {
	case Income:
		return o.Income
	case CashFlow:
		return o.CashFlow
	default:
		return o.Balance
	}
}

func (o *Output) set(t StatementType, r ChunkResult) {
	switch t {
	case Income:
		o.Income = r
	case CashFlow:
		o.CashFlow = r
	default:
		o.Balance = r
	}
}
