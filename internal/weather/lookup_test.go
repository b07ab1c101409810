package weather

import (
	"math/rand"
	"testing"
)

func newRng() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestLookup_ExactMatch_IgnoresCaseAndWhitespace(t *testing.T) {
	cases := []string{"London", "london", "LONDON", "  London  ", "\tlondon\n"}

	for _, city := range cases {
		report := Lookup(city, newRng())
		if report.City != "London" {
			t.Errorf("Lookup(%q).City = %q, want %q", city, report.City, "London")
		}
		if report.Country != "United Kingdom" {
			t.Errorf("Lookup(%q).Country = %q, want %q", city, report.Country, "United Kingdom")
		}
	}
}

func TestLookup_PartialMatch_BothDirections(t *testing.T) {
	// 問い合わせがテーブル名を含む場合
	report := Lookup("Greater London Area", newRng())
	if report.City != "London" {
		t.Errorf("Lookup(containing query).City = %q, want %q", report.City, "London")
	}

	// テーブル名が問い合わせを含む場合
	report = Lookup("York", newRng())
	if report.City != "New York" {
		t.Errorf("Lookup(contained query).City = %q, want %q", report.City, "New York")
	}
}

func TestLookup_PartialMatch_FirstDeclarationWins(t *testing.T) {
	// "o" はテーブルの複数都市に含まれるが、宣言順で最初のTokyoが選ばれること
	report := Lookup("o", newRng())
	if report.City != "Tokyo" {
		t.Errorf("Lookup(\"o\").City = %q, want first declared match %q", report.City, "Tokyo")
	}
}

func TestLookup_ExactMatchBeatsPartialMatch(t *testing.T) {
	// "Singapore" は完全一致で解決され、部分一致の探索に進まないこと
	report := Lookup("singapore", newRng())
	if report.City != "Singapore" {
		t.Errorf("Lookup(\"singapore\").City = %q, want %q", report.City, "Singapore")
	}
}

func TestLookup_UnknownCity_SynthesizesReport(t *testing.T) {
	rng := newRng()

	for i := 0; i < 50; i++ {
		report := Lookup("Atlantis", rng)

		if report.City != "Atlantis" {
			t.Fatalf("synthetic report city = %q, want query echoed back", report.City)
		}
		if report.Country != "Unknown" {
			t.Fatalf("synthetic report country = %q, want %q", report.Country, "Unknown")
		}
		if report.Temp < 5 || report.Temp >= 40 {
			t.Fatalf("synthetic temp = %d, want in [5, 40)", report.Temp)
		}
		if report.Humidity < 30 || report.Humidity >= 90 {
			t.Fatalf("synthetic humidity = %d, want in [30, 90)", report.Humidity)
		}
		if report.Description == "" {
			t.Fatal("synthetic description should not be empty")
		}
	}
}

func TestLookup_UnknownCity_TrimsEchoedName(t *testing.T) {
	report := Lookup("  Atlantis  ", newRng())
	if report.City != "Atlantis" {
		t.Errorf("synthetic report city = %q, want trimmed %q", report.City, "Atlantis")
	}
}
