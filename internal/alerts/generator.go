// Package alerts turns a launched attack into the ordered sequence of
// simulated security alerts the blue team investigates.
package alerts

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// Generator produces alert sequences for launched attacks. It is a
// pure function of (attack, scenario, base time) plus its random
// source, so tests inject a seeded rand.
type Generator struct {
	rng          *rand.Rand
	includeNoise bool
}

// NewGenerator creates a generator. A nil rng falls back to a
// time-seeded source.
func NewGenerator(rng *rand.Rand, includeNoise bool) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, includeNoise: includeNoise}
}

// Generate builds the alert list for an attack, ordered by timestamp.
// Templated alerts fire at baseTime + offset + U(0,1)s jitter; noise
// alerts, when enabled, are low-confidence fillers that never reuse
// the templated summaries.
func (g *Generator) Generate(attack models.Attack, scenario models.Scenario, baseTime time.Time) []models.Alert {
	templates := alertTemplates[attack.Type]
	offsets, ok := delayOffsets[attack.Type]
	if !ok {
		offsets = defaultOffsets
	}

	out := make([]models.Alert, 0, len(templates)+2)
	for i, tpl := range templates {
		delay := float64(i) * 0.5
		if i < len(offsets) {
			delay = offsets[i]
		}
		jitter := g.rng.Float64()

		ioc := map[string]any{"ip": "198.51.100.7", "target": attack.ToNode}
		for k, v := range tpl.IOC {
			ioc[k] = v
		}
		details := tpl.Details
		if details == "" {
			details = fmt.Sprintf("Attack %s targeting %s", attack.ID, attack.ToNode)
		}

		out = append(out, models.Alert{
			ID:         fmt.Sprintf("alert-%s-%d", attack.ID, i),
			Timestamp:  baseTime.Add(time.Duration((delay + jitter) * float64(time.Second))),
			Source:     tpl.Source,
			Severity:   tpl.Severity,
			Summary:    tpl.Summary,
			Details:    details,
			IOC:        ioc,
			Confidence: tpl.Confidence,
		})
	}

	if g.includeNoise {
		count := max(1, int(math.Floor(float64(len(out))*(0.2+g.rng.Float64()*0.1))))
		for i := 0; i < count; i++ {
			jitter := g.rng.Float64() * 5
			out = append(out, models.Alert{
				ID:         fmt.Sprintf("noise-%d", 1000+g.rng.Intn(9000)),
				Timestamp:  baseTime.Add(time.Duration(jitter * float64(time.Second))),
				Source:     noiseSources[g.rng.Intn(len(noiseSources))],
				Severity:   noiseSeverities[g.rng.Intn(len(noiseSeverities))],
				Summary:    noiseSummary,
				Details:    "False positive alert",
				IOC:        map[string]any{},
				Confidence: 0.3 + g.rng.Float64()*0.2,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
