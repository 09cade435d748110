package decisionlog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"trade-advisor/internal/types"
)

type summaryRow struct {
	Symbol        string
	Cycles        int
	Ideas         int
	SumConfidence int
	Observe       int
	PendingOnly   int
	WaitRR        int
	OpenOrScale   int
}

// SummarizeDay aggregates the day's JSONL decision file into a per-symbol
// CSV next to it. Returns the CSV path, or "" when no decisions were logged
// that day.
func (j *JSONL) SummarizeDay(t time.Time) (string, error) {
	inPath := j.dailyPath(t)
	if _, err := os.Stat(inPath); err != nil {
		return "", nil
	}
	f, err := os.Open(inPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	rows := map[string]*summaryRow{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		r := rows[e.Symbol]
		if r == nil {
			r = &summaryRow{Symbol: e.Symbol}
			rows[e.Symbol] = r
		}
		r.Cycles++
		r.SumConfidence += e.Confidence
		if e.IdeaID != "" {
			r.Ideas++
		}
		switch e.Action {
		case types.ActionObserve:
			r.Observe++
		case types.ActionPendingOnly:
			r.PendingOnly++
		case types.ActionWaitRR:
			r.WaitRR++
		case types.ActionOpenOrScale:
			r.OpenOrScale++
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", nil
	}

	symbols := make([]string, 0, len(rows))
	for s := range rows {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	outPath := filepath.Join(j.dir, "summary", t.UTC().Format("2006-01-02")+".csv")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"symbol", "cycles", "ideas", "avg_confidence",
		"observe", "pending_only", "wait_rr", "open_or_scale"}); err != nil {
		return "", err
	}
	for _, s := range symbols {
		r := rows[s]
		avg := 0
		if r.Cycles > 0 {
			avg = r.SumConfidence / r.Cycles
		}
		rec := []string{
			r.Symbol,
			strconv.Itoa(r.Cycles),
			strconv.Itoa(r.Ideas),
			strconv.Itoa(avg),
			strconv.Itoa(r.Observe),
			strconv.Itoa(r.PendingOnly),
			strconv.Itoa(r.WaitRR),
			strconv.Itoa(r.OpenOrScale),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	return outPath, w.Error()
}
