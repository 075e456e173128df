package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mcdev12/soccermanager/go/internal/desk"
	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/money"
)

func renderTeam(w io.Writer, view desk.View) {
	if !view.Authenticated {
		renderSignedOut(w, view)
		return
	}
	if view.Team == nil {
		fmt.Fprintln(w, "Team not loaded.")
		return
	}
	t := view.Team
	fmt.Fprintf(w, "%s (%s)\n", t.Name, t.Country)
	fmt.Fprintf(w, "Market value: %s   Budget: %s\n", money.Format(t.MarketValue), money.Format(t.Budget))
	fmt.Fprintf(w, "Sorted by %s %s\n\n", view.Order.Key, view.Order.Direction)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPOSITION\tAGE\tCOUNTRY\tVALUE\tSTATUS")
	for _, row := range view.Rows {
		p := row.Player
		statusText := string(row.Status)
		if row.Listing != nil {
			statusText = fmt.Sprintf("%s @ %s (listing %d)", row.Status, money.Format(row.Listing.AskPrice), row.Listing.ID)
		}
		if row.Busy {
			statusText += " [transfer in progress]"
		}
		name := p.FullName()
		if row.Editing {
			name = "* " + name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\n",
			p.ID, name, p.Position, p.Age, p.Country, money.Format(p.MarketValue), statusText)
	}
	tw.Flush()
}

func renderMarket(w io.Writer, view desk.View) {
	if !view.Authenticated {
		renderSignedOut(w, view)
		return
	}
	if len(view.Offers) == 0 {
		fmt.Fprintln(w, "The transfer market is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LISTING\tPLAYER\tFROM\tPOSITION\tAGE\tCOUNTRY\tVALUE\tASK PRICE\t")
	for _, o := range view.Offers {
		p := o.Listing.Player
		from := "-"
		if p.Team != nil {
			from = p.Team.Name
		}
		mark := ""
		switch {
		case o.Busy:
			mark = "transfer in progress"
		case o.Own:
			mark = "yours"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			o.Listing.ID, p.FullName(), from, p.Position, p.Age, p.Country,
			money.Format(p.MarketValue), money.Format(o.Listing.AskPrice), mark)
	}
	tw.Flush()
}

func renderUser(w io.Writer, user *models.User) {
	fmt.Fprintf(w, "%s <%s>\n", user.FullName, user.Email)
	if user.Role != "" {
		fmt.Fprintf(w, "Role: %s\n", user.Role)
	}
}

func renderSignedOut(w io.Writer, view desk.View) {
	if view.Notice != "" {
		fmt.Fprintln(w, view.Notice)
		return
	}
	fmt.Fprintln(w, "You are not logged in.")
}
