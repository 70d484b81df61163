package viewmodel

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteSummary prints a plain-text report of brand cards.
func WriteSummary(w io.Writer, cards []BrandCard) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, "No brand data available")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, card := range cards {
		fmt.Fprintf(tw, "%s\t%d posts\t%s engagement\n", card.Name, card.TotalPosts, card.TotalEngagement)
		for _, p := range card.Platforms {
			fmt.Fprintf(tw, "  %s\t%s followers\t%d posts\t%s engagement\n", p.Platform, p.Followers, p.Posts, p.Engagement)
		}
		for _, m := range card.Models {
			fmt.Fprintf(tw, "  model %s\t%d posts\tavg %s\trate %s (%s)\n", m.Model, m.Posts, m.AverageEngagement, m.EngagementRate, m.RateBadge)
		}
		for _, s := range card.Sections {
			fmt.Fprintf(tw, "  %s\t%s\n", s.Model, s.Label)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
