package main

import (
	"context"
	"fmt"
	"log"

	"github.com/fortiva/propflow/internal/config"
	"github.com/fortiva/propflow/internal/database"
	"github.com/fortiva/propflow/internal/models"
	"github.com/fortiva/propflow/internal/services/documents"
	"github.com/fortiva/propflow/internal/services/signing"
	"github.com/fortiva/propflow/internal/storage"
)

// nopGateway keeps seeding local: no notifications leave the machine.
type nopGateway struct{}

func (nopGateway) CreateTemplate(context.Context, *models.Template) signing.Result {
	return signing.Result{OK: true}
}
func (nopGateway) GenerateDocument(context.Context, *models.Document) signing.Result {
	return signing.Result{OK: true}
}
func (nopGateway) ApproveSigning(context.Context, string) signing.Result {
	return signing.Result{OK: true}
}
func (nopGateway) SignStatus(context.Context, string) (*signing.StatusResponse, signing.Result) {
	return &signing.StatusResponse{}, signing.Result{OK: true}
}

func main() {
	fmt.Println("🌱 PropFlow Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.User{},
		&models.Template{},
		&models.Document{},
		&models.AuditLog{},
		&models.Transaction{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")

	store := storage.NewGormStore(db.DB)
	svc := documents.NewService(store, nopGateway{}, nil)
	ctx := context.Background()

	var templateCount int64
	db.Model(&models.Template{}).Count(&templateCount)
	if templateCount > 0 {
		fmt.Printf("⚠️  Database already has %d templates. Seed anyway? (y/N): ", templateCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}
	}

	fmt.Println("📄 Creating demo templates...")

	sales := models.Template{
		Name:         "Standard Sales Agreement",
		DocumentType: "Sales Contract",
		Content: "<h1>Sales Agreement</h1>" +
			"<p>This agreement is made on {{agreementDay}} {{agreementMonth}} {{agreementYear}} at {{agreementPlace}}.</p>" +
			"<p>{{buyerName}}, residing at {{buyerAddress}}, agrees to purchase the {{propertyType}} " +
			"located at {{propertyAddress}} from {{sellerName}} for {{saleAmount}} ({{saleAmountWords}}).</p>" +
			"<p>Earnest money of {{earnestMoney}} has been paid via {{paymentMode}}; " +
			"the balance of {{balanceAmount}} is due at registration.</p>" +
			"<p>Witnesses: {{witness1Name}} ({{witness1Address}}) and {{witness2Name}} ({{witness2Address}}).</p>",
	}
	if err := store.CreateTemplate(ctx, &sales); err != nil {
		log.Fatalf("❌ Failed to seed template: %v", err)
	}

	rental := models.Template{
		Name:         "Residential Lease",
		DocumentType: "Lease Agreement",
		Content: "<h1>Lease Agreement</h1>" +
			"<p>{{sellerName}} lets the property at {{propertyAddress}} ({{area}}) to {{buyerName}}.</p>" +
			"<p>Jurisdiction: {{jurisdictionCity}}, {{stateName}}.</p>",
	}
	if err := store.CreateTemplate(ctx, &rental); err != nil {
		log.Fatalf("❌ Failed to seed template: %v", err)
	}

	fmt.Println("📑 Creating demo document...")

	meta := models.JSONB{
		"agreementPlace": "Mumbai",
		"stateName":      "Maharashtra",
		"seller": map[string]interface{}{
			"name":    "Jane Smith",
			"address": "12 Hill Road, Mumbai",
			"pan":     "ABCDE1234F",
		},
		"buyer": map[string]interface{}{
			"name":    "John Doe",
			"address": "44 Lake View, Pune",
		},
		"property": map[string]interface{}{
			"type":    "apartment",
			"address": "Flat 7B, Sea Breeze Towers, Mumbai",
			"area":    "1150 sq ft",
		},
		"financial": map[string]interface{}{
			"saleAmount":      500000,
			"saleAmountWords": "five hundred thousand",
			"earnestMoney":    50000,
			"balanceAmount":   450000,
			"paymentMode":     "bank transfer",
		},
	}

	doc, err := svc.Create(ctx, sales.ID, meta, "seeder", nil)
	if err != nil {
		log.Fatalf("❌ Failed to seed document: %v", err)
	}

	fmt.Printf("✅ Seeded %d templates and document %s (status: %s)\n", 2, doc.ID, doc.Status)
}
