package system

import (
	"testing"

	"github.com/julianstephens/lifequest/internal/cli/clitest"
	"github.com/julianstephens/lifequest/internal/models"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	ctx := clitest.Initialized(t)
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	if _, err := a.Coins.Record(ctx.Context(), 25, models.KindEarned, models.CategoryDailyLogin, "login"); err != nil {
		t.Fatalf("failed to record coins: %v", err)
	}

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy database: %v", err)
	}
}

func TestDoctorCmd_MissingDatabase(t *testing.T) {
	ctx, _ := clitest.New(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail without a database")
	}
}

func TestDoctorCmd_InvalidConfig(t *testing.T) {
	ctx := clitest.Initialized(t)
	ctx.Config.Exchange.DefaultRate = -1

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to report the invalid configuration")
	}
}

func TestCheckLedgerBalances(t *testing.T) {
	ctx := clitest.Initialized(t)
	a, err := ctx.App()
	if err != nil {
		t.Fatalf("failed to open app: %v", err)
	}
	for _, amount := range []int64{40, 15} {
		if _, err := a.Points.Record(ctx.Context(), amount, models.KindEarned, models.CategoryTaskCompletion, "task"); err != nil {
			t.Fatalf("failed to record points: %v", err)
		}
	}
	if _, err := a.Points.Record(ctx.Context(), 20, models.KindSpent, models.CategoryShopping, "treat"); err != nil {
		t.Fatalf("failed to record spend: %v", err)
	}

	if err := checkLedgerBalances(ctx); err != nil {
		t.Errorf("checkLedgerBalances() = %v", err)
	}
}
