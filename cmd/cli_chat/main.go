package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"sage-llm/internal/config"
	"sage-llm/internal/domain"
	"sage-llm/internal/llm"
	"sage-llm/internal/service"
)

// Chat interactivo contra el orquestador. Funciona sin credencial gracias
// al buffer local, útil para probar las respuestas enlatadas.
func main() {
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	acquire := llm.AcquireFromConfig(cfg.GeminiBaseURL, cfg.GeminiAPIKey, logger)
	concierge := service.NewConciergeService(acquire, cfg.ChatModel, logger)

	if _, ok := acquire(); !ok {
		fmt.Println("(no credential configured: running on local buffer)")
	}

	var history []domain.Message

	fmt.Println("===== Sage CLI =====")
	fmt.Println("Type a message, or 'exit' to quit.")

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
		result := concierge.Send(ctx, history, input)
		cancel()

		label := "sage"
		if result.IsLocal {
			label = "sage(local)"
		}
		fmt.Printf("%s: %s\n", label, result.Text)
		for _, src := range result.Sources {
			fmt.Printf("  [%s] %s\n", src.Title, src.URI)
		}
		if result.TriggerLead {
			fmt.Println("  (lead capture would be shown here)")
		}

		history = append(history,
			domain.Message{Role: domain.RoleUser, Content: input, CreatedAt: time.Now().UTC()},
			domain.Message{Role: domain.RoleAssistant, Content: result.Text, CreatedAt: time.Now().UTC(), Sources: result.Sources},
		)
	}
}
