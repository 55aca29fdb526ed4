package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/lucasrivera/shoppulse-backend/internal/transactions"
	pkgauth "github.com/lucasrivera/shoppulse-backend/pkg/auth"
	"github.com/lucasrivera/shoppulse-backend/pkg/config"
	"github.com/lucasrivera/shoppulse-backend/pkg/db"
	"github.com/lucasrivera/shoppulse-backend/pkg/logger"
	"github.com/lucasrivera/shoppulse-backend/pkg/migrate"
)

// catalog mirrors a small retail assortment so mined rules have structure:
// accessories co-occur with their anchor product.
var catalog = []struct {
	name     string
	category string
	price    float64
	partner  string
}{
	{"Laptop", "Electronics", 1199.99, "Laptop Bag"},
	{"Laptop Bag", "Accessories", 79.99, ""},
	{"Wireless Mouse", "Electronics", 34.99, "Mouse Pad"},
	{"Mouse Pad", "Accessories", 12.99, ""},
	{"Running Shoes", "Sportswear", 129.99, "Sports Socks"},
	{"Sports Socks", "Sportswear", 14.99, ""},
	{"Coffee Maker", "Home", 89.99, "Coffee Beans"},
	{"Coffee Beans", "Grocery", 18.50, ""},
	{"Yoga Mat", "Sportswear", 44.99, ""},
	{"Desk Lamp", "Home", 39.99, ""},
}

var paymentMethods = []string{"Credit Card", "PayPal", "Debit Card", "Cash"}
var shippingTypes = []string{"Standard", "Express", "Free Shipping"}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	merchantFlag := flag.String("merchant", "", "merchant uuid (generated when empty)")
	customers := flag.Int("customers", 60, "number of distinct customers")
	orders := flag.Int("orders", 400, "number of orders to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	merchantID := uuid.New()
	if *merchantFlag != "" {
		merchantID, err = uuid.Parse(*merchantFlag)
		requireResource(ctx, logg, "merchant id", err)
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	txService, err := transactions.NewService(transactions.NewRepository(dbClient.DB()), dbClient)
	requireResource(ctx, logg, "transaction service", err)

	faker := gofakeit.New(*seed)
	rows := generateRows(faker, *customers, *orders)

	uploadID := uuid.New()
	count, err := txService.ImportBatch(ctx, transactions.ImportBatchInput{
		MerchantID: merchantID,
		UploadID:   uploadID,
		Filename:   "seed.csv",
		Rows:       rows,
	})
	requireResource(ctx, logg, "import", err)

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		MerchantID: merchantID,
		Plan:       "dev",
	})
	requireResource(ctx, logg, "token", err)

	fmt.Println("merchant_id:", merchantID)
	fmt.Println("upload_id:  ", uploadID)
	fmt.Println("rows:       ", count)
	fmt.Println("token:      ", token)
}

func generateRows(faker *gofakeit.Faker, customers, orders int) []transactions.ImportRow {
	type profile struct {
		id       string
		age      int
		gender   string
		location string
		payment  string
		shipping string
	}

	profiles := make([]profile, 0, customers)
	for i := 0; i < customers; i++ {
		profiles = append(profiles, profile{
			id:       fmt.Sprintf("CUST-%04d", i+1),
			age:      faker.Number(18, 72),
			gender:   faker.RandomString([]string{"Female", "Male", "Other"}),
			location: faker.City(),
			payment:  faker.RandomString(paymentMethods),
			shipping: faker.RandomString(shippingTypes),
		})
	}

	now := time.Now().UTC()
	rows := make([]transactions.ImportRow, 0, orders*2)
	for i := 0; i < orders; i++ {
		customer := profiles[faker.Number(0, len(profiles)-1)]
		item := catalog[faker.Number(0, len(catalog)-1)]
		date := now.AddDate(0, 0, -faker.Number(0, 364)).Format("2006-01-02")

		rows = append(rows, buildRow(faker, customer.id, customer.age, customer.gender, customer.location, customer.payment, customer.shipping, item.name, item.category, item.price, date))

		// Anchor purchases drag their companion item into the same basket
		// most of the time, giving apriori something to find.
		if item.partner != "" && faker.Number(1, 100) <= 70 {
			for _, companion := range catalog {
				if companion.name == item.partner {
					rows = append(rows, buildRow(faker, customer.id, customer.age, customer.gender, customer.location, customer.payment, customer.shipping, companion.name, companion.category, companion.price, date))
					break
				}
			}
		}
	}
	return rows
}

func buildRow(faker *gofakeit.Faker, customerID string, age int, gender, location, payment, shipping, product, category string, price float64, date string) transactions.ImportRow {
	return transactions.ImportRow{
		CustomerID:      customerID,
		ProductName:     product,
		Category:        category,
		Date:            date,
		Quantity:        faker.Number(1, 3),
		UnitPrice:       price,
		Rating:          float64(faker.Number(1, 5)),
		Age:             age,
		Gender:          gender,
		Location:        location,
		PaymentMethod:   payment,
		ShippingType:    shipping,
		DiscountApplied: faker.Bool(),
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
