// ABOUTME: Terminal client for the parlor chat service.
// ABOUTME: Readline-style input with live SSE updates and cursor pagination.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"

	"github.com/parlorchat/parlor/internal/api"
	"github.com/parlorchat/parlor/internal/config"
	"github.com/parlorchat/parlor/internal/conversation"
	"github.com/parlorchat/parlor/internal/events"
	"github.com/parlorchat/parlor/internal/pagination"
	"github.com/parlorchat/parlor/internal/scroll"
	"github.com/parlorchat/parlor/internal/users"
)

// viewportRows models the visible height of the message area. The terminal
// has no real scroll container, so one message counts as one row and the
// scroll anchor math runs against this fixed window.
const viewportRows = 20

// getSession returns the session token from the PARLOR_SESSION env var or a
// token file (tokenPath override, else ~/.config/parlor/session).
func getSession(tokenPath string) string {
	if token := os.Getenv("PARLOR_SESSION"); token != "" {
		return token
	}

	if tokenPath == "" {
		configDir := os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return ""
			}
			configDir = filepath.Join(homeDir, ".config")
		}
		tokenPath = filepath.Join(configDir, "parlor", "session")
	}

	data, err := os.ReadFile(tokenPath)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}

// getConfigPath picks the configuration file: flag, env var, working dir,
// then the user config dir. Empty means run on defaults.
func getConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := os.Getenv("PARLOR_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat("parlor.yaml"); err == nil {
		return "parlor.yaml"
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "parlor", "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// setupLogger builds the process logger on stderr; stdout is the chat
// surface.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	server := flag.String("server", "", "Chat service URL (overrides config)")
	userID := flag.Int64("user-id", 0, "Your user id, used to label your own messages")
	flag.Parse()

	cfg := &config.Config{}
	if path := getConfigPath(*configPath); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg.Pagination.InitialPageSize = config.DefaultInitialPageSize
		cfg.Pagination.OlderPageSize = config.DefaultOlderPageSize
	}
	if *server != "" {
		cfg.Server.BaseURL = *server
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:3000"
	}

	logger := setupLogger(cfg.Logging)

	cyan := color.New(color.FgCyan)
	cyan.Println("parlor")
	fmt.Printf("connected to %s\n", cfg.Server.BaseURL)
	session := getSession(cfg.Session.TokenPath)
	if session != "" {
		fmt.Println("Auth: session token configured (PARLOR_SESSION)")
	} else {
		fmt.Println("Auth: none (set PARLOR_SESSION or write ~/.config/parlor/session)")
	}
	fmt.Println("Type a message and press Enter. /help for commands. Ctrl+C to quit.")
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, session, *userID, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGoodbye!")
}

// app wires the stores, controller, push channel, and directory together
// for the lifetime of the chat surface.
type app struct {
	client     *api.Client
	view       *conversation.View
	chats      *conversation.ChatList
	controller *pagination.Controller
	channel    *events.Channel
	directory  *users.Directory
	logger     *slog.Logger

	selfID int64

	// viewport is the modeled scroll state of the message area. Mutated
	// only from the render goroutine.
	viewport scroll.Position
	// rendered is how many messages have been printed for the current
	// selection. Mutated only from the render goroutine.
	rendered int
}

func run(ctx context.Context, cfg *config.Config, session string, selfID int64, logger *slog.Logger) error {
	client := api.New(cfg.Server.BaseURL, session, logger)

	a := &app{
		client:    client,
		view:      conversation.NewView(logger),
		chats:     conversation.NewChatList(logger),
		directory: users.NewDirectory(client, cfg.Users.CacheTTL, cfg.Users.CacheSize, logger),
		logger:    logger,
		selfID:    selfID,
		viewport:  scroll.Position{Viewport: viewportRows},
	}
	a.controller = pagination.New(a.view, client,
		cfg.Pagination.InitialPageSize, cfg.Pagination.OlderPageSize, logger)
	a.channel = events.NewChannel(client, a.view, a.chats, logger)

	defer a.view.Close()
	defer a.chats.Close()
	defer a.directory.Close()

	// Initial chat list load.
	chats, err := client.Chats(ctx)
	if err != nil {
		return fmt.Errorf("loading chats: %w", err)
	}
	a.chats.Load(chats)
	a.printChats()

	// Open the push channel for the lifetime of the surface.
	if err := a.channel.Open(ctx); err != nil {
		return fmt.Errorf("opening push channel: %w", err)
	}
	defer a.channel.Close()

	// Render store changes as they land.
	changes, subID := a.view.Subscribe(ctx)
	defer a.view.Unsubscribe(subID)
	listChanges, listSubID := a.chats.Subscribe(ctx)
	defer a.chats.Unsubscribe(listSubID)
	go a.render(ctx, changes, listChanges)

	return a.inputLoop(ctx)
}

// inputLoop reads commands and messages from stdin until EOF or ctx ends.
func (a *app) inputLoop(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if chatID := a.view.Selected(); chatID != 0 {
			fmt.Printf("[chat %d]> ", chatID)
		} else {
			fmt.Print("> ")
		}

		inputCh := make(chan string, 1)
		errCh := make(chan error, 1)

		go func() {
			if scanner.Scan() {
				inputCh <- scanner.Text()
			} else {
				if err := scanner.Err(); err != nil {
					errCh <- err
				} else {
					errCh <- io.EOF
				}
			}
		}()

		var input string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input = <-inputCh:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "/quit" || input == "/exit" || input == "/q" {
			return nil
		}

		if err := a.handle(ctx, input); err != nil {
			fmt.Printf("[error] %v\n", err)
		}
		fmt.Println()
	}
}

// handle dispatches one line of input.
func (a *app) handle(ctx context.Context, input string) error {
	switch {
	case input == "/help":
		printHelp()
		return nil

	case input == "/chats":
		a.printChats()
		return nil

	case strings.HasPrefix(input, "/open"):
		arg := strings.TrimSpace(strings.TrimPrefix(input, "/open"))
		chatID, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("usage: /open <chat id>")
		}
		a.controller.Select(ctx, chatID)
		return nil

	case input == "/older":
		if !a.view.HasMore() {
			fmt.Println("No older messages.")
			return nil
		}
		a.controller.SentinelVisible(ctx)
		return nil

	case strings.HasPrefix(input, "/new"):
		return a.createChat(ctx, strings.TrimSpace(strings.TrimPrefix(input, "/new")))

	case strings.HasPrefix(input, "/search"):
		return a.searchUsers(ctx, strings.TrimSpace(strings.TrimPrefix(input, "/search")))

	case strings.HasPrefix(input, "/"):
		return fmt.Errorf("unknown command %q, try /help", strings.Fields(input)[0])

	default:
		return a.send(ctx, input)
	}
}

// send posts the typed message to the open chat and merges the optimistic
// copy with the id the service assigned.
func (a *app) send(ctx context.Context, content string) error {
	chatID := a.view.Selected()
	if chatID == 0 {
		return fmt.Errorf("no chat open, use /open <chat id>")
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}

	messageID, err := a.client.SendMessage(ctx, chatID, content)
	if err != nil {
		return err
	}

	msg := api.Message{
		ID:        messageID,
		ChatID:    chatID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if a.selfID != 0 {
		msg.SenderID = &a.selfID
	}
	a.view.AppendSent(msg)
	return nil
}

// createChat parses "/new <title> <user id>..." and optimistically appends
// the created chat to the list.
func (a *app) createChat(ctx context.Context, args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("usage: /new <title> [user id]...")
	}

	title := fields[0]
	seen := make(map[int64]bool)
	var usersIDs []int64
	for _, f := range fields[1:] {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", f)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		usersIDs = append(usersIDs, id)
	}

	chatID, err := a.client.CreateChat(ctx, title, usersIDs)
	if err != nil {
		return err
	}

	a.chats.Create(api.Chat{ID: chatID, Title: title})
	fmt.Printf("Created chat %d: %s\n", chatID, title)
	return nil
}

// searchUsers looks up accounts by username prefix.
func (a *app) searchUsers(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("usage: /search <username>")
	}

	found, err := a.client.SearchUsers(ctx, username)
	if err != nil {
		return err
	}

	if len(found) == 0 {
		fmt.Println("No users found")
		return nil
	}
	for _, u := range found {
		fmt.Printf("  %d: %s\n", u.ID, u.Username)
	}
	return nil
}

// render reacts to store changes: it re-anchors the modeled viewport and
// prints whatever became visible.
func (a *app) render(ctx context.Context, changes <-chan conversation.Change, listChanges <-chan conversation.Change) {
	for {
		select {
		case <-ctx.Done():
			return

		case change, ok := <-changes:
			if !ok {
				return
			}
			a.applyViewChange(ctx, change)

		case change, ok := <-listChanges:
			if !ok {
				return
			}
			if change.Kind == conversation.ChangeChatAdded {
				if title, ok := a.chats.Title(change.ChatID); ok {
					fmt.Printf("\n[new chat %d: %s]\n", change.ChatID, title)
				}
			}
		}
	}
}

// applyViewChange updates the modeled scroll position for one mutation and
// prints newly visible messages.
func (a *app) applyViewChange(ctx context.Context, change conversation.Change) {
	before := a.viewport
	newHeight := a.view.Len()

	switch change.Kind {
	case conversation.ChangeReset:
		a.viewport = scroll.Position{Viewport: viewportRows}
		a.rendered = 0

	case conversation.ChangeInitial:
		a.viewport = scroll.Position{
			Top:      scroll.Bottom(newHeight, viewportRows),
			Height:   newHeight,
			Viewport: viewportRows,
		}
		a.rendered = newHeight
		fmt.Println()
		a.printMessages(ctx, a.view.Messages())
		if a.view.HasMore() {
			fmt.Println(color.HiBlackString("  (older history available, /older to load)"))
		}

	case conversation.ChangePrepend:
		// Content added above the viewport: keep visible messages stationary.
		a.viewport.Top = scroll.AfterPrepend(before, newHeight)
		a.viewport.Height = newHeight
		a.rendered += change.Added
		fmt.Printf("\n[loaded %d older message(s)]\n", change.Added)

	case conversation.ChangeAppend:
		a.viewport.Top = scroll.AfterAppend(before, newHeight)
		a.viewport.Height = newHeight
		if before.AtBottom() {
			// Auto-follow: show what just arrived.
			msgs := a.view.Messages()
			if len(msgs) > a.rendered {
				fmt.Println()
				a.printMessages(ctx, msgs[a.rendered:])
				a.rendered = len(msgs)
			}
		}
	}
}

// printMessages renders messages with resolved sender names.
func (a *app) printMessages(ctx context.Context, msgs []api.Message) {
	sender := color.New(color.FgGreen)
	ts := color.New(color.FgHiBlack)

	for _, msg := range msgs {
		name := a.senderName(ctx, msg)
		sender.Printf("%s ", name)
		ts.Printf("%s\n", msg.CreatedAt.Local().Format("2006-01-02 15:04"))
		fmt.Printf("  %s\n", msg.Content)
	}
}

// senderName resolves the display name for a message's sender.
func (a *app) senderName(ctx context.Context, msg api.Message) string {
	if msg.SenderID != nil && a.selfID != 0 && *msg.SenderID == a.selfID {
		return "you"
	}
	name, err := a.directory.Username(ctx, msg.SenderID)
	if err != nil {
		a.logger.Warn("resolving sender failed", "message_id", msg.ID, "error", err)
		return "unknown"
	}
	return name
}

// printChats shows the chat list most-recent-first.
func (a *app) printChats() {
	display := a.chats.Display()
	if len(display) == 0 {
		fmt.Println("No chats yet, create one with /new")
		return
	}

	fmt.Println("Chats:")
	for _, chat := range display {
		fmt.Printf("  %d: %s\n", chat.ID, chat.Title)
	}
}

// printHelp displays available commands.
func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /chats              List your chats (most recent first)")
	fmt.Println("  /open <id>          Open a chat and load its history")
	fmt.Println("  /older              Load older messages in the open chat")
	fmt.Println("  /new <title> [id]   Create a chat with the given members")
	fmt.Println("  /search <name>      Search users by username")
	fmt.Println("  /help               Show this help")
	fmt.Println("  /quit               Exit")
	fmt.Println("Anything else is sent as a message to the open chat.")
}
