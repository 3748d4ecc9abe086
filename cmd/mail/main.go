package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"
	"golang.org/x/sync/errgroup"

	"github.com/josphatwangui51-hash/survey-market/internal/config"
	"github.com/josphatwangui51-hash/survey-market/internal/mailer"
)

func newClient(cfg *config.Config) (*mail.Client, error) {
	return mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
		mail.WithTimeout(time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second),
	)
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	renderer, err := mailer.NewRenderer(cfg.Email.TemplatesDir, cfg.Email.SMTP.Username)
	if err != nil {
		logger.Error("failed to load mail templates", slog.String("error", err.Error()))
		return
	}

	// fail fast when the SMTP server is unreachable
	probe, err := newClient(cfg)
	if err != nil {
		logger.Error("failed to create mail client", slog.String("error", err.Error()))
		return
	}
	dialCtx, dialCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer dialCancel()
	if err := probe.DialWithContext(dialCtx); err != nil {
		logger.Error("failed to connect to mail server", slog.String("error", err.Error()))
		return
	}
	_ = probe.Close()

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.Queue,
		true,  // durable
		false, // keep the queue when no consumer is attached
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare queue", slog.String("error", err.Error()))
		return
	}

	workers := max(cfg.Email.Workers, 1)
	if err := ch.Qos(workers, 0, false); err != nil {
		logger.Error("failed to set prefetch", slog.String("error", err.Error()))
		return
	}

	msgs, err := ch.Consume(
		q.Name,
		"",    // let the broker name the consumer
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to consume queue", slog.String("error", err.Error()))
		os.Exit(1)
	}

	/**********************************************
	 * workers
	 **********************************************/
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for i := range workers {
		g.Go(func() error {
			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			return consume(ctx, logger.With("worker", i), client, renderer, msgs)
		})
	}

	logger.Info("waiting for messages, press CTRL+C to exit", "workers", workers, "queue", q.Name)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mail worker stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mail worker stopped gracefully")
}

func consume(ctx context.Context, logger *slog.Logger, client *mail.Client, renderer *mailer.Renderer, msgs <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}

			msg, err := renderer.Build(d.Body)
			if err != nil {
				// a malformed message will never succeed
				logger.Error("failed to build mail", slog.String("error", err.Error()))
				_ = d.Nack(false, false)
				continue
			}

			if err := client.DialAndSendWithContext(ctx, msg); err != nil {
				logger.Error("failed to send mail", slog.String("error", err.Error()))
				_ = d.Nack(false, true)
				continue
			}

			_ = d.Ack(false)
			logger.Info("mail sent", slog.Any("to", msg.GetTo()))
		}
	}
}
