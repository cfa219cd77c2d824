package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"

	"asha_connect_go/client"
	"asha_connect_go/config"
)

// Terminal admin dashboard. Logs into the API, binds to the push
// channel and keeps a live view of incoming submissions.
func main() {
	cfg := config.Load()

	client.SetSocketURL(cfg.SocketURL)
	gw := client.NewGateway(cfg.APIURL)

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Admin email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read email: %v", err)
	}
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	pwBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}

	resp := gw.Post("/admin/login", map[string]string{
		"email":    email,
		"password": string(pwBytes),
	})
	if !resp.Success {
		log.Fatalf("Login failed: %s", resp.Message)
	}
	fmt.Println("Logged in.")

	notifier := client.NotifierFunc(func(level, message string) {
		fmt.Printf("\n[%s] %s\n> ", strings.ToUpper(level), message)
	})
	confirm := func(prompt string) bool {
		fmt.Printf("%s [y/N]: ", prompt)
		answer, _ := reader.ReadString('\n')
		return strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y")
	}

	dash := client.NewDashboard(gw, resp.Token, notifier, confirm)
	dash.Bind()
	dash.Refresh()
	defer dash.Close()

	ch := client.Acquire()
	fmt.Printf("Push channel: %s\n", ch.State())

	printHelp()
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "tabs":
			for _, tab := range client.Tabs {
				marker := " "
				if tab == dash.ActiveTab() {
					marker = "*"
				}
				fmt.Printf(" %s %s (%d)\n", marker, tab, dash.Count(tab))
			}
		case "tab":
			if len(fields) < 2 {
				fmt.Println("usage: tab <name>")
				continue
			}
			dash.SetActiveTab(fields[1])
			printRows(dash)
		case "list":
			printRows(dash)
		case "search":
			dash.SetSearch(strings.Join(fields[1:], " "))
			printRows(dash)
		case "filter":
			status := ""
			if len(fields) > 1 {
				status = fields[1]
			}
			dash.SetStatusFilter(status)
			printRows(dash)
		case "status":
			if len(fields) < 3 {
				fmt.Println("usage: status <id> <new_status>")
				continue
			}
			id, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			if dash.SetStatus(dash.ActiveTab(), id, fields[2]) {
				fmt.Println("Updated.")
			}
		case "delete":
			if len(fields) < 2 {
				fmt.Println("usage: delete <id>")
				continue
			}
			id, err := strconv.ParseUint(fields[1], 10, 64)
			if err != nil {
				fmt.Println("invalid id")
				continue
			}
			dash.DeleteRecord(dash.ActiveTab(), id)
		case "refresh":
			dash.Refresh()
			printRows(dash)
		case "help":
			printHelp()
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command. Type 'help'.")
		}
	}
}

func printRows(dash *client.Dashboard) {
	rows := dash.Rows()
	if len(rows) == 0 {
		fmt.Println("(no records)")
		return
	}
	for _, rec := range rows {
		line, _ := json.Marshal(rec)
		fmt.Printf("  #%d [%s] %s\n", rec.ID(), rec.Status(), line)
	}
}

func printHelp() {
	fmt.Println(`Commands:
  tabs                 show categories and counts
  tab <name>           switch category (contacts, help_requests, applicants, donations)
  list                 show rows in the active category
  search <text>        filter rows by free text
  filter [status]      filter rows by status (omit to clear)
  status <id> <value>  change a record's status
  delete <id>          delete a record
  refresh              refetch from the server
  quit                 exit`)
}
