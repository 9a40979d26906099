package alerts

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

var testAttack = models.Attack{
	ID:       "atk-rce-web",
	Type:     models.AttackRCE,
	FromNode: "internet",
	ToNode:   "web-1",
}

func TestGenerate(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("without noise every template fires exactly once", func(t *testing.T) {
		g := NewGenerator(rand.New(rand.NewSource(1)), false)

		out := g.Generate(testAttack, models.Scenario{}, base)
		require.Len(t, out, len(alertTemplates[models.AttackRCE]))

		summaries := make([]string, len(out))
		for i, a := range out {
			summaries[i] = a.Summary
		}
		require.Contains(t, summaries, "Command execution pattern detected: /bin/sh spawned by PHP-FPM")
		require.Contains(t, summaries, "File system write detected: /tmp/.backdoor.php created")
	})

	t.Run("alerts are ordered by timestamp", func(t *testing.T) {
		g := NewGenerator(rand.New(rand.NewSource(7)), true)

		out := g.Generate(testAttack, models.Scenario{}, base)
		for i := 1; i < len(out); i++ {
			require.False(t, out[i].Timestamp.Before(out[i-1].Timestamp),
				"alert %d fires before alert %d", i, i-1)
		}
		require.False(t, out[0].Timestamp.Before(base), "no alert fires before launch")
	})

	t.Run("noise alerts are low-confidence fillers", func(t *testing.T) {
		g := NewGenerator(rand.New(rand.NewSource(3)), true)

		out := g.Generate(testAttack, models.Scenario{}, base)
		require.Greater(t, len(out), len(alertTemplates[models.AttackRCE]),
			"noise should add at least one alert")

		noise := 0
		for _, a := range out {
			if a.Summary == noiseSummary {
				noise++
				require.GreaterOrEqual(t, a.Confidence, 0.3)
				require.LessOrEqual(t, a.Confidence, 0.5)
			}
		}
		require.Equal(t, len(out)-len(alertTemplates[models.AttackRCE]), noise,
			"every extra alert should be a noise alert")
	})

	t.Run("template IOC fields merge with the attack context", func(t *testing.T) {
		g := NewGenerator(rand.New(rand.NewSource(1)), false)

		out := g.Generate(testAttack, models.Scenario{}, base)
		first := out[0]
		require.Equal(t, "web-1", first.IOC["target"])
		require.Equal(t, "/plugins/legacy.php", first.IOC["url"], "template IOC should survive the merge")
	})

	t.Run("unknown attack type yields no scripted alerts", func(t *testing.T) {
		g := NewGenerator(rand.New(rand.NewSource(1)), false)

		attack := testAttack
		attack.Type = models.AttackType("Unknown")
		out := g.Generate(attack, models.Scenario{}, base)
		require.Empty(t, out, "no templates means no scripted alerts")
	})
}
