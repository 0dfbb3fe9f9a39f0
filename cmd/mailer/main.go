package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/namnguyen191/Natours-API/config"
	"github.com/namnguyen191/Natours-API/infra/queue"
	"github.com/namnguyen191/Natours-API/internal/mailer"
)

func main() {
	cfg := config.LoadConfig()

	log.Println("mailer starting...")
	log.Printf("KafkaBroker=%s Topic=%s GroupID=%s",
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
	)

	mailService := mailer.NewMailService(
		cfg.SMTPAddr,
		cfg.GmailUser,
		cfg.GmailAppPassword,
		cfg.MailFrom,
		cfg.MailFromName,
		"",
	)
	handler := mailer.NewEventHandler(mailService)

	consumer := queue.NewKafkaConsumer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaGroupID,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
		handler,
	)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("mailer listening for events...")
	consumer.Listen(ctx)
	log.Println("mailer shutting down")
}
