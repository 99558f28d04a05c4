package model

import "time"

// CSVHeader is the first line of every export
var CSVHeader = []string{
	"ID товара",
	"Наименование",
	"Ссылка на товар",
	"Регулярная цена",
	"Промо цена",
	"Бренд",
}

// Row is one exported product
type Row struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	RegularPrice string `json:"regular_price"`
	PromoPrice   string `json:"promo_price"`
	Brand        string `json:"brand"`
}

// Record returns the row in CSVHeader column order.
func (r Row) Record() []string {
	return []string{r.ProductID, r.Name, r.URL, r.RegularPrice, r.PromoPrice, r.Brand}
}

// RunStatus is the lifecycle state of an export run
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunDegraded  RunStatus = "degraded" // a fetch failed and was replaced by an empty result
	RunFailed    RunStatus = "failed"
)

// Run is a single execution of the export, as kept in the run history
type Run struct {
	ID         string     `json:"id"`
	Category   string     `json:"category"`
	StoreID    int        `json:"store_id"`
	Status     RunStatus  `json:"status"`
	Total      int        `json:"total"`
	Fetched    int        `json:"fetched"`
	Exported   int        `json:"exported"`
	OutputFile string     `json:"output_file"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// RunError is an error recorded against a run
type RunError struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
