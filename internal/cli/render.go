package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fastygo/foodshare/domain"
	"github.com/fastygo/foodshare/usecase/reconcile"
)

const dateLayout = "2006-01-02"

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(layout)
}

func renderFoods(w io.Writer, foods []domain.FoodItem) {
	if len(foods) == 0 {
		fmt.Fprintln(w, "No food items.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tQUANTITY\tEXPIRES\tSTATUS")
	for _, f := range foods {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", f.ID, f.Name, f.Quantity, formatDate(f.ExpiryDate, dateLayout), f.Status)
	}
	tw.Flush()
}

func renderRequests(w io.Writer, requests []domain.FoodRequest) {
	if len(requests) == 0 {
		fmt.Fprintln(w, "No requests.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tRECEIVER\tFOOD TYPE\tQUANTITY\tURGENCY\tDEADLINE\tSTATUS")
	for _, r := range requests {
		deadline := "-"
		if r.Deadline != nil {
			deadline = formatDate(*r.Deadline, "2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			r.ID, orDash(r.ReceiverID), r.FoodType, r.Quantity, orDash(string(r.Urgency)), deadline, r.Status)
	}
	tw.Flush()
}

func renderTransactions(w io.Writer, txns []domain.Transaction) {
	if len(txns) == 0 {
		fmt.Fprintln(w, "No transactions.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tFOOD\tDONOR\tRECEIVER\tREQUEST\tSTATUS\tDATE")
	for _, t := range txns {
		food := t.FoodID
		if t.FoodName != "" {
			food = fmt.Sprintf("%s (%s)", t.FoodName, t.FoodID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, food, orDash(t.DonorID), orDash(t.ReceiverID), orDash(t.RequestID), orDash(t.Status),
			formatDate(t.CreatedAt, "2006-01-02 15:04"))
	}
	tw.Flush()
}

func renderProfile(w io.Writer, u domain.User) {
	tw := table(w)
	fmt.Fprintf(tw, "Name:\t%s\n", orDash(u.Name))
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(u.Email))
	fmt.Fprintf(tw, "Phone:\t%s\n", orDash(u.Phone))
	fmt.Fprintf(tw, "Location:\t%.5f, %.5f\n", u.Latitude, u.Longitude)
	fmt.Fprintf(tw, "Roles:\t%s\n", u.Roles.Label())
	tw.Flush()
}

func renderDashboard(w io.Writer, d reconcile.Dashboard) {
	fmt.Fprintf(w, "Dashboard: %s\n", d.Roles.Label())
	if d.Kind == reconcile.ViewNone {
		fmt.Fprintln(w, "Your account has no role yet.")
		return
	}
	if d.HasDonor() {
		stats := d.Donor.Stats()
		fmt.Fprintf(w, "\nDonor: %d active donations, %d nearby requests, %d donated in total\n",
			stats.ActiveDonations, stats.NearbyRequests, stats.TotalDonated)
		fmt.Fprintln(w, "Recent food items:")
		renderFoods(w, d.Donor.RecentFoods())
		fmt.Fprintln(w, "Nearby requests:")
		renderRequests(w, d.Donor.RecentNearby())
	}
	if d.HasReceiver() {
		stats := d.Receiver.Stats()
		fmt.Fprintf(w, "\nReceiver: %d active requests, %d fulfilled, %d in total\n",
			stats.ActiveRequests, stats.Fulfilled, stats.TotalRequests)
		fmt.Fprintln(w, "Recent requests:")
		renderRequests(w, d.Receiver.RecentRequests())
	}
}
