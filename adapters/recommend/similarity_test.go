package recommend

import (
	"context"
	"math"
	"testing"

	"smartcart/domain/basket"
	"smartcart/domain/transaction"
)

func TestFitSimilarity_CosineValues(t *testing.T) {
	// Customer 1 bought 5 of x; customer 2 bought 3 of x and 2 of y.
	m := basket.BuildQuantityMatrix([]transaction.Transaction{
		{OrderID: "O1", Product: "x", Quantity: 5, CustomerID: 1},
		{OrderID: "O2", Product: "x", Quantity: 3, CustomerID: 2},
		{OrderID: "O2", Product: "y", Quantity: 2, CustomerID: 2},
	})

	model, err := FitSimilarity(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	i, _ := model.CustomerIndex(1)
	j, _ := model.CustomerIndex(2)

	// cos([5,0],[3,2]) = 15 / (5 * sqrt(13)).
	want := 15.0 / (5.0 * math.Sqrt(13.0))
	if got := model.UserSim[i][j]; math.Abs(got-want) > 1e-6 {
		t.Errorf("expected user similarity %.5f, got %.5f", want, got)
	}
	if model.UserSim[i][j] != model.UserSim[j][i] {
		t.Error("similarity matrix must be symmetric")
	}
	for d := range model.UserSim {
		if model.UserSim[d][d] != 1 {
			t.Errorf("diagonal must be 1, got %g at %d", model.UserSim[d][d], d)
		}
	}

	// Item columns are x=[5,3], y=[0,2].
	xi, _ := model.ProductIndex("x")
	yi, _ := model.ProductIndex("y")
	wantItem := 6.0 / (math.Sqrt(34.0) * 2.0)
	if got := model.ItemSim[xi][yi]; math.Abs(got-wantItem) > 1e-6 {
		t.Errorf("expected item similarity %.5f, got %.5f", wantItem, got)
	}
}

func TestFitSimilarity_ZeroMagnitudeVector(t *testing.T) {
	m := basket.BuildQuantityMatrix([]transaction.Transaction{
		{OrderID: "O1", Product: "x", Quantity: 2, CustomerID: 1},
		// Customer 2 only appears with a zero quantity.
		{OrderID: "O2", Product: "x", Quantity: 0, CustomerID: 2},
	})

	model, err := FitSimilarity(context.Background(), m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	i, _ := model.CustomerIndex(1)
	j, _ := model.CustomerIndex(2)
	if got := model.UserSim[i][j]; got != 0 {
		t.Errorf("expected 0 similarity against zero vector, got %g", got)
	}
	if got := model.UserSim[j][j]; got != 1 {
		t.Errorf("expected self-similarity 1 even for zero vector, got %g", got)
	}
}

func TestFitSimilarity_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := basket.BuildQuantityMatrix([]transaction.Transaction{
		{OrderID: "O1", Product: "x", Quantity: 1, CustomerID: 1},
	})
	if _, err := FitSimilarity(ctx, m); err == nil {
		t.Error("expected error from cancelled context")
	}
}
