package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/kataras/iris/v12"
	mailjet "github.com/mailjet/mailjet-apiv3-go"
	"github.com/omise/omise-go"

	"saraih-server/booking"
	"saraih-server/config"
	"saraih-server/middleware"
	"saraih-server/mq"
	"saraih-server/notifications"
	"saraih-server/payments"
	"saraih-server/routes"
	"saraih-server/scheduler"
	"saraih-server/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[main] database: %v", err)
	}
	rdb, err := storage.OpenRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[main] redis: %v", err)
	}

	bookings := storage.NewBookingStore(db)
	rooms := storage.NewRoomStore(db)
	guests := storage.NewGuestStore(db)

	publisher, err := mq.NewPublisher(cfg.RabbitURL, mq.Exchange)
	if err != nil {
		log.Fatalf("[main] rabbitmq: %v", err)
	}
	defer publisher.Close()

	svc := booking.NewService(bookings, rooms, publisher, nil)

	omc, err := omise.NewClient(cfg.OmisePublicKey, cfg.OmiseSecretKey)
	if err != nil {
		log.Fatalf("[main] omise: %v", err)
	}
	gateway, err := payments.NewOmiseGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey)
	if err != nil {
		log.Fatalf("[main] omise gateway: %v", err)
	}

	// Background sweeps, single-flight per type across instances.
	sweeps := scheduler.NewSweeps(bookings, svc, gateway, rooms,
		storage.NewRoomStatusMirror(rdb), cfg.PendingExpiry, nil)
	sched := scheduler.New(storage.NewSweepLocks(rdb))
	sched.Add(scheduler.Task{Name: "expire_pending", Every: cfg.ExpireInterval, Run: sweeps.ExpirePending})
	sched.Add(scheduler.Task{Name: "mark_no_shows", Every: cfg.NoShowInterval, Run: sweeps.MarkNoShows})
	sched.Add(scheduler.Task{Name: "settle_refunds", Every: cfg.RefundInterval, Run: sweeps.SettleRefunds})
	sched.Add(scheduler.Task{Name: "sync_room_status", Every: cfg.RoomStatusInterval, Run: sweeps.SyncRoomStatus})
	sched.Start(ctx)

	// Notification worker feeding Mailjet and Expo from booking.* events.
	consumer, err := mq.NewConsumer(cfg.RabbitURL, mq.Exchange, "notifications", []string{"booking.*"})
	if err != nil {
		log.Fatalf("[main] rabbitmq consumer: %v", err)
	}
	defer consumer.Close()
	mailer := mailjet.NewMailjetClient(cfg.MailjetAPIKey, cfg.MailjetSecretKey)
	worker := notifications.NewWorker(consumer, notifications.NewNotifier(guests, mailer, cfg.MailjetSender))
	if err := worker.Run(ctx); err != nil {
		log.Fatalf("[main] notification worker: %v", err)
	}

	app := iris.New()
	bookingHandlers := routes.NewBookingHandlers(svc, bookings)
	roomHandlers := routes.NewRoomHandlers(svc.Availability())
	paymentHandlers := routes.NewPaymentHandlers(omc, svc)

	api := app.Party("/api")
	{
		api.Post("/payments/webhook", paymentHandlers.Webhook)

		authed := api.Party("/", middleware.RequireAuth(cfg.JWTSecret))
		authed.Post("/bookings", bookingHandlers.CreateBooking)
		authed.Get("/bookings", bookingHandlers.GetMyBookings)
		authed.Get("/bookings/{id:uint}", bookingHandlers.GetBooking)
		authed.Post("/bookings/{id:uint}/cancel", bookingHandlers.CancelBooking)
		authed.Post("/bookings/{id:uint}/transition", middleware.RequireStaff, bookingHandlers.TransitionBooking)
		authed.Get("/rooms/{id:uint}/availability", roomHandlers.GetAvailability)
		authed.Get("/rooms/{id:uint}/unavailable-dates", roomHandlers.GetUnavailableDates)
	}

	go func() {
		<-ctx.Done()
		app.Shutdown(context.Background())
	}()
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Printf("[main] http server: %v", err)
	}
	sched.Wait()
}
