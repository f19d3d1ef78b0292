package config

import (
	"fmt"
	"strings"
)

func validate(c *Config) error {
	if c.NavigationTimeout <= 0 {
		return fmt.Errorf("navigation timeout must be > 0")
	}
	for name, d := range map[string]int64{
		"wait between pages": int64(c.WaitBetweenPages),
		"wait after load":    int64(c.WaitAfterLoad),
		"wait after scroll":  int64(c.WaitAfterScroll),
		"ready timeout":      int64(c.ReadyTimeout),
		"page load wait":     int64(c.VisitPageLoad),
		"min wait":           int64(c.VisitMinWait),
	} {
		if d < 0 {
			return fmt.Errorf("%s must be >= 0", name)
		}
	}
	if c.VisitMinWait > c.VisitMaxWait {
		return fmt.Errorf("min wait (%s) must not exceed max wait (%s)", c.VisitMinWait, c.VisitMaxWait)
	}
	if c.PagesPerMinute < 0 {
		return fmt.Errorf("pages per minute must be >= 0")
	}
	switch strings.ToLower(c.SaveFormat) {
	case "csv", "xlsx", "json":
	default:
		return fmt.Errorf("unsupported save format %q", c.SaveFormat)
	}
	return nil
}
