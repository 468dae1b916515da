package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"bookhub/internal/assistant"
	"bookhub/internal/catalog"
	"bookhub/internal/client"
	"bookhub/internal/grpcserver"
	"bookhub/pkg/grpc/bookpb"
	"bookhub/pkg/models"
)

func newChatCmd() *cobra.Command {
	var (
		userID   string
		useWS    bool
		grpcAddr string
	)
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the assistant on a running server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.ChatRequest{Message: strings.Join(args, " "), UserID: userID}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			switch {
			case grpcAddr != "":
				return chatGRPC(ctx, cmd, grpcAddr, req)
			case useWS:
				return chatWS(cmd, req)
			}
			resp, err := apiClient().Chat(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id for chat history")
	cmd.Flags().BoolVar(&useWS, "ws", false, "send over the chat websocket")
	cmd.Flags().StringVar(&grpcAddr, "grpc", "", "call the gRPC service at this address instead")
	return cmd
}

func chatGRPC(ctx context.Context, cmd *cobra.Command, addr string, req models.ChatRequest) error {
	conn, err := grpcserver.Dial(addr)
	if err != nil {
		return err
	}
	defer conn.Close()
	resp, err := bookpb.NewAssistantClient(conn).Chat(ctx, &bookpb.ChatRequest{
		Message: req.Message,
		UserId:  req.UserID,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

// chatWS sends one message and prints the first reply or error event.
func chatWS(cmd *cobra.Command, req models.ChatRequest) error {
	wsURL, err := client.WebsocketURL(apiURL, "/ws/chat")
	if err != nil {
		return err
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(req); err != nil {
		return err
	}
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		var ev assistant.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		switch ev.Type {
		case assistant.EventReply:
			return printJSON(cmd, ev.Reply)
		case assistant.EventError:
			return fmt.Errorf("server: %s", ev.Text)
		}
	}
}

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Browse the catalog",
	}

	var (
		q          client.BookQuery
		bestseller string
	)
	search := &cobra.Command{
		Use:   "search",
		Short: "Search books",
		RunE: func(cmd *cobra.Command, args []string) error {
			if bestseller != "" {
				b := bestseller == "true"
				if !b && bestseller != "false" {
					return fmt.Errorf("--bestseller must be true or false")
				}
				q.Bestseller = &b
			}
			page, err := apiClient().SearchBooks(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printJSON(cmd, page)
		},
	}
	f := search.Flags()
	f.StringVarP(&q.Q, "query", "q", "", "keyword in title, author or description")
	f.StringVar(&q.Genre, "genre", "", "genre")
	f.StringVar(&q.Author, "author", "", "author fragment")
	f.IntVar(&q.Year, "year", 0, "publication year")
	f.StringVar(&bestseller, "bestseller", "", "true or false")
	f.IntVar(&q.Limit, "limit", 20, "page size")
	f.IntVar(&q.Offset, "offset", 0, "offset")

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Download the whole catalog as JSON or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := apiClient().AllBooks(cmd.Context())
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			file, err := os.Create(out)
			if err != nil {
				return err
			}
			defer file.Close()
			if strings.EqualFold(filepath.Ext(out), ".csv") {
				err = catalog.WriteCSV(file, books)
			} else {
				err = catalog.EncodeJSON(file, books)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d books to %s\n", len(books), out)
			return nil
		},
	}
	export.Flags().StringVar(&out, "out", "exports/books.json", "output path (.json or .csv)")

	cmd.AddCommand(search, export)
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history <user_id>",
		Short: "Show a user's chat history (staff)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := apiClient()
			if err := mustLoggedIn(c); err != nil {
				return err
			}
			page, err := c.History(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, page)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max turns")
	return cmd
}
