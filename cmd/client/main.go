package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"portal-chat/client"
	"portal-chat/domain"
	"portal-chat/projection"
	"portal-chat/runtime/workers"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL    string        `env:"PORTAL_SERVER_URL,default=http://localhost:8080"`
	ProjectID    string        `env:"PORTAL_PROJECT_ID,required=true"`
	Email        string        `env:"PORTAL_EMAIL,required=true"`
	Password     string        `env:"PORTAL_PASSWORD,required=true"`
	PollInterval time.Duration `env:"PORTAL_POLL_INTERVAL,default=15s"`
	LogLevel     string        `env:"LOG_LEVEL,required=true"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// stdinConfirmer asks on the terminal; only an explicit "y" proceeds.
type stdinConfirmer struct {
	in *bufio.Scanner
}

func (s *stdinConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	if !s.in.Scan() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(s.in.Text()), "y")
}

// view holds the last fetched list so line commands can address messages
// by their printed number.
type view struct {
	mu        sync.Mutex
	messages  []domain.Message
	selfID    string
	projectID string
}

func (v *view) update(messages []domain.Message) {
	v.mu.Lock()
	v.messages = messages
	v.mu.Unlock()
	v.render()
}

func (v *view) byNumber(n int) (domain.Message, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n < 1 || n > len(v.messages) {
		return domain.Message{}, false
	}
	return v.messages[n-1], true
}

// render prints the grouped timeline: one colored day header per group and
// one table of messages below it.
func (v *view) render() {
	v.mu.Lock()
	messages := make([]domain.Message, len(v.messages))
	copy(messages, v.messages)
	v.mu.Unlock()

	now := time.Now()
	timeline := projection.BuildTimeline(messages, now)

	fmt.Print("\n")
	number := 0
	for _, group := range timeline.Groups {
		fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(" " + group.Label + " "))

		table := tablewriter.NewWriter(os.Stdout)
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetTablePadding("\t")

		for _, m := range group.Messages {
			number++
			content := m.Content
			if m.IsEdited {
				content += color.Gray.Render(" (edited)")
			}
			table.Append([]string{
				fmt.Sprintf("#%d", number),
				projection.TimeLabel(m.CreatedAt, now),
				color.Cyan.Render(m.Sender.Name),
				content,
				projection.ReadIndicator(m, v.selfID),
			})
		}
		table.Render()
	}
	fmt.Print("> ")
}

func run() (int, error) {
	// 1. Configuration & logger
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Termination signals (Ctrl+C)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Login
	apiClient := client.NewRestClient(config.ServerURL)
	session, err := apiClient.Login(ctx, config.Email, config.Password)
	if err != nil {
		return exitRuntime, fmt.Errorf("login failed: %w", err)
	}
	log.Info("Logged in", "name", session.Name, "role", session.Role, "project", config.ProjectID)

	stdin := bufio.NewScanner(os.Stdin)
	v := &view{selfID: session.UserID, projectID: config.ProjectID}

	// 4. Poller under supervision
	poller := client.NewPoller(apiClient, config.ProjectID, session.UserID, v.update, log,
		client.WithInterval(config.PollInterval),
		client.WithNewMessageFunc(func(m domain.Message) {
			fmt.Println(color.Yellow.Render(fmt.Sprintf("\n*** New message from %s ***", m.Sender.Name)))
		}))

	sup := workers.NewSupervisor(log)
	sup.Add(poller)
	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 5. Interaction components
	typing := client.NewTypingCoordinator(apiClient, config.ProjectID, log)
	uploader := client.NewUploader(apiClient, log)
	composer := client.NewComposer(apiClient, uploader, config.ProjectID, session,
		&stdinConfirmer{in: stdin}, log)

	if _, err := apiClient.MarkRead(ctx, config.ProjectID); err != nil {
		log.Debug("Mark read failed", "error", err)
	}

	fmt.Println("Commands: /edit <n> <text>, /delete <n>, /search <terms>, /upload <path>, /hide, /show, /quit")
	fmt.Print("> ")

	// 6. Input loop
	for stdin.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := strings.TrimSpace(stdin.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := handleCommand(ctx, line, v, composer, apiClient, poller); quit {
				break
			}
			fmt.Print("> ")
			continue
		}

		// Plain text: the user composed a message.
		typing.Notify()
		composer.SetText(line)
		typing.Stop()
		if _, sent, err := composer.Send(ctx); err != nil {
			fmt.Println(color.Red.Render("Send failed: " + err.Error()))
		} else if sent {
			poller.Refresh()
		}
		fmt.Print("> ")
	}

	// 7. Cleanup
	typing.Stop()
	sup.Stop()
	<-supDone
	log.Info("Stopping client...")
	return exitOK, nil
}

// handleCommand dispatches one /command line; returns true on /quit.
func handleCommand(ctx context.Context, line string, v *view, composer *client.Composer,
	apiClient *client.RestClient, poller *client.Poller) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return true

	case "/hide":
		poller.SetVisible(false)
		fmt.Println("Polling paused (view hidden).")

	case "/show":
		poller.SetVisible(true)

	case "/edit":
		if len(fields) < 3 {
			fmt.Println("Usage: /edit <n> <new text>")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Println("Usage: /edit <n> <new text>")
			return false
		}
		target, ok := v.byNumber(n)
		if !ok {
			fmt.Println("No such message number.")
			return false
		}
		if !composer.BeginEdit(target) {
			fmt.Println("You can only edit your own messages.")
			return false
		}
		composer.SetEditText(strings.Join(fields[2:], " "))
		if _, saved, err := composer.SaveEdit(ctx); err != nil {
			fmt.Println(color.Red.Render("Edit failed: " + err.Error()))
			composer.CancelEdit()
		} else if saved {
			poller.Refresh()
		}

	case "/delete":
		if len(fields) != 2 {
			fmt.Println("Usage: /delete <n>")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Println("Usage: /delete <n>")
			return false
		}
		target, ok := v.byNumber(n)
		if !ok {
			fmt.Println("No such message number.")
			return false
		}
		deleted, err := composer.Delete(ctx, target)
		if err != nil {
			fmt.Println(color.Red.Render("Delete failed: " + err.Error()))
		} else if deleted {
			poller.Refresh()
		} else {
			fmt.Println("Not deleted.")
		}

	case "/search":
		if len(fields) < 2 {
			fmt.Println("Usage: /search <terms>")
			return false
		}
		hits, err := apiClient.Search(ctx, v.projectID, strings.Join(fields[1:], " "))
		if err != nil {
			fmt.Println(color.Red.Render("Search failed: " + err.Error()))
			return false
		}
		for _, hit := range hits {
			fmt.Printf("%s: %s\n", color.Cyan.Render(hit.SenderName), hit.Content)
		}
		if len(hits) == 0 {
			fmt.Println("No results.")
		}

	case "/upload":
		if len(fields) < 2 {
			fmt.Println("Usage: /upload <path> [path...]")
			return false
		}
		var files []client.File
		var handles []*os.File
		for _, path := range fields[1:] {
			f, err := os.Open(path)
			if err != nil {
				fmt.Println(color.Red.Render("Cannot open " + path))
				continue
			}
			handles = append(handles, f)
			files = append(files, client.File{Name: filepath.Base(path), Content: f})
		}
		err := composer.AddFiles(ctx, files)
		for _, f := range handles {
			_ = f.Close()
		}
		if err != nil {
			fmt.Println(color.Red.Render(err.Error()))
		}
		pending := composer.PendingAttachments()
		fmt.Printf("%d attachment(s) pending; send a message (or an empty one via /send) to post them.\n", len(pending))

	case "/send":
		// Posts pending attachments without text.
		if _, sent, err := composer.Send(ctx); err != nil {
			fmt.Println(color.Red.Render("Send failed: " + err.Error()))
		} else if sent {
			poller.Refresh()
		} else {
			fmt.Println("Nothing to send.")
		}

	default:
		fmt.Println("Unknown command.")
	}
	return false
}
