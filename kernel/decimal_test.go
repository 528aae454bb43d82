package kernel

import "testing"

func TestDecimalRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "1.5", "0.001", "20.0", "0.3", "123.456", "-4.25"}
	for _, s := range cases {
		d := ParseDecimal(s)
		want := d.Float64()
		got := ParseDecimal(d.String()).Float64()
		if got != want {
			t.Logf("round trip mismatch for %q: got %v want %v (formatted as %s)", s, got, want, d.String())
			t.Fail()
		}
	}
}

func TestDecimalStringPlaces(t *testing.T) {
	d := NewDecimal(20, 0)
	if d.StringPlaces(1) != "20.0" {
		t.Logf("expected 20.0, got %s", d.StringPlaces(1))
		t.Fail()
	}
	if d.StringPlaces(3) != "20.000" {
		t.Logf("expected 20.000, got %s", d.StringPlaces(3))
		t.Fail()
	}
}

func TestDecimalHRRNExample(t *testing.T) {
	// spec.md scenario 2: waiting=100s, executedCycleNumber=5 -> HRRN=20.0
	d := NewDecimal(0, int64(100.0/5.0*DecimalScale))
	if d.StringPlaces(1) != "20.0" {
		t.Logf("expected HRRN example to render 20.0, got %s", d.StringPlaces(1))
		t.Fail()
	}
}

func TestParseDecimalPermissiveTrailingGarbage(t *testing.T) {
	d := ParseDecimal("3.5xyz")
	if d != NewDecimal(3, 500) {
		t.Logf("expected trailing garbage to be ignored, got %s", d)
		t.Fail()
	}
}

func TestParseDecimalNegative(t *testing.T) {
	d := ParseDecimal("-0.250")
	if d.Float64() != -0.25 {
		t.Logf("expected -0.25, got %v", d.Float64())
		t.Fail()
	}
}
