package client

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
)

// Submission categories as keyed in the dashboard payload
const (
	TabContacts     = "contacts"
	TabHelpRequests = "help_requests"
	TabApplicants   = "applicants"
	TabDonations    = "donations"
)

// Tabs lists the dashboard categories in display order
var Tabs = []string{TabContacts, TabHelpRequests, TabApplicants, TabDonations}

// Record is one submission row. Rows are schemaless on the client: each
// category has its own columns and the server is the source of truth.
type Record map[string]interface{}

// ID returns the record's numeric identifier
func (r Record) ID() uint64 {
	switch v := r["id"].(type) {
	case float64:
		return uint64(v)
	case json.Number:
		n, _ := v.Int64()
		return uint64(n)
	default:
		return 0
	}
}

// Status returns the record's status field
func (r Record) Status() string {
	s, _ := r["status"].(string)
	return s
}

// Field returns a string field, "" when absent
func (r Record) Field(name string) string {
	s, _ := r[name].(string)
	return s
}

// Notifier receives transient user-facing notifications
type Notifier interface {
	Notify(level, message string)
}

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(level, message string)

func (f NotifierFunc) Notify(level, message string) { f(level, message) }

// Confirmer asks the user to confirm a destructive action
type Confirmer func(prompt string) bool

// Dashboard reconciles the admin's view of server-side submissions under
// three independent triggers: initial load, push events and direct user
// actions. The in-memory copy is a cache; every Refresh replaces it
// wholesale from the server.
type Dashboard struct {
	gw       *Gateway
	token    string
	notifier Notifier
	confirm  Confirmer

	mu           sync.Mutex
	data         map[string][]Record
	activeTab    string
	search       string
	statusFilter string
	loading      bool
	closed       bool

	subs []*Subscription
}

// NewDashboard creates a reconciler using the given gateway and bearer
// token. The notifier and confirmer may be nil, disabling notifications
// and making deletes proceed without confirmation prompts.
func NewDashboard(gw *Gateway, token string, notifier Notifier, confirm Confirmer) *Dashboard {
	if notifier == nil {
		notifier = NotifierFunc(func(level, message string) {})
	}
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &Dashboard{
		gw:        gw,
		token:     token,
		notifier:  notifier,
		confirm:   confirm,
		data:      make(map[string][]Record),
		activeTab: TabContacts,
	}
}

// Bind subscribes the dashboard to the four new-submission push events.
// Each event shows a notification describing the record, then triggers
// an authoritative refresh.
func (d *Dashboard) Bind() {
	bind := func(event string, describe func(Record) string) {
		sub := Subscribe(event, func(data json.RawMessage) {
			var rec Record
			if err := json.Unmarshal(data, &rec); err != nil {
				log.Printf("[WARNING] Malformed %s payload: %v", event, err)
				return
			}
			// Notification first, then refresh; their completions are
			// independent.
			d.notifier.Notify("info", describe(rec))
			d.Refresh()
		})
		d.mu.Lock()
		d.subs = append(d.subs, sub)
		d.mu.Unlock()
	}

	bind("new_contact", func(r Record) string {
		return fmt.Sprintf("New contact from %s", r.Field("name"))
	})
	bind("new_help_request", func(r Record) string {
		return fmt.Sprintf("New help request from %s", r.Field("full_name"))
	})
	bind("new_applicant", func(r Record) string {
		return fmt.Sprintf("New application from %s", r.Field("full_name"))
	})
	bind("new_donation", func(r Record) string {
		return fmt.Sprintf("New donation of ₹%s", formatAmount(r["amount"]))
	})
}

// Refresh fetches the full dashboard payload and replaces the cached
// slices. Overlapping calls are allowed; the last to complete wins.
func (d *Dashboard) Refresh() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.loading = true
	d.mu.Unlock()

	resp := d.gw.Get("/admin/dashboard", d.token)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = false
	if d.closed {
		// Torn down while the request was in flight; drop the response
		return
	}
	if !resp.Success {
		log.Printf("[WARNING] Dashboard refresh failed: %s", resp.Message)
		return
	}

	var payload map[string][]Record
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		log.Printf("[WARNING] Malformed dashboard payload: %v", err)
		return
	}

	fresh := make(map[string][]Record, len(Tabs))
	for _, tab := range Tabs {
		fresh[tab] = payload[tab]
	}
	d.data = fresh
}

// SetStatus sends a status change and, on success, patches the one
// matching record in place. No refetch: an in-place patch cannot reorder
// rows, so the table does not flicker.
func (d *Dashboard) SetStatus(category string, id uint64, newStatus string) bool {
	path := fmt.Sprintf("/admin/%s/%d/status", category, id)
	resp := d.gw.Patch(path, map[string]string{"status": newStatus}, d.token)
	if !resp.Success {
		d.notifier.Notify("error", "Status update failed.")
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	for _, rec := range d.data[category] {
		if rec.ID() == id {
			rec["status"] = newStatus
			break
		}
	}
	return true
}

// DeleteRecord confirms with the user, sends the DELETE and, on success,
// refetches. A deletion changes row count, which an in-place patch
// cannot express safely.
func (d *Dashboard) DeleteRecord(category string, id uint64) bool {
	if !d.confirm(fmt.Sprintf("Delete %s #%d?", category, id)) {
		return false
	}

	resp := d.gw.Delete(fmt.Sprintf("/admin/%s/%d", category, id), d.token)
	if !resp.Success {
		d.notifier.Notify("error", "Delete failed.")
		return false
	}

	d.notifier.Notify("success", fmt.Sprintf("Deleted %s #%d", category, id))
	d.Refresh()
	return true
}

// SetActiveTab switches the displayed category. Pure state change.
func (d *Dashboard) SetActiveTab(tab string) {
	d.mu.Lock()
	d.activeTab = tab
	d.mu.Unlock()
}

// ActiveTab returns the displayed category
func (d *Dashboard) ActiveTab() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.activeTab
}

// SetSearch updates the free-text filter. Never touches the network.
func (d *Dashboard) SetSearch(q string) {
	d.mu.Lock()
	d.search = q
	d.mu.Unlock()
}

// SetStatusFilter updates the status filter ("" shows everything).
// Never touches the network.
func (d *Dashboard) SetStatusFilter(status string) {
	d.mu.Lock()
	d.statusFilter = status
	d.mu.Unlock()
}

// Loading reports whether a refresh is in flight
func (d *Dashboard) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loading
}

// Rows projects the active tab's records through the search and status
// filters. Pure function of held state.
func (d *Dashboard) Rows() []Record {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows := d.data[d.activeTab]
	if d.search == "" && d.statusFilter == "" {
		out := make([]Record, len(rows))
		copy(out, rows)
		return out
	}

	needle := strings.ToLower(d.search)
	var out []Record
	for _, rec := range rows {
		if d.statusFilter != "" && rec.Status() != d.statusFilter {
			continue
		}
		if needle != "" && !recordMatches(rec, needle) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Count returns the number of unfiltered records in a category
func (d *Dashboard) Count(category string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.data[category])
}

// Close cancels the push subscriptions and marks the dashboard dead so
// responses still in flight are discarded.
func (d *Dashboard) Close() {
	d.mu.Lock()
	subs := d.subs
	d.subs = nil
	d.closed = true
	d.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

func recordMatches(rec Record, needle string) bool {
	for _, v := range rec {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}

// formatAmount renders a JSON number without a trailing ".000000"
func formatAmount(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case json.Number:
		return n.String()
	case string:
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}
