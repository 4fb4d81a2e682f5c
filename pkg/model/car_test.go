package model

import "testing"

func TestParseCarTypeLabels(t *testing.T) {
	cases := []struct {
		input string
		want  CarType
	}{
		{"경차", CarTypeCompact},
		{"중형차", CarTypeMidsize},
		{"대형차", CarTypeFullsize},
		{"스포츠카", CarTypeSports},
		{"SUV", CarTypeSUV},
		{"COMPACT", CarTypeCompact},
		{"MIDSIZE", CarTypeMidsize},
	}

	for _, tc := range cases {
		got, ok := ParseCarType(tc.input)
		if !ok {
			t.Fatalf("ParseCarType(%q) not recognized", tc.input)
		}
		if got != tc.want {
			t.Fatalf("ParseCarType(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestParseCarTypeUnknown(t *testing.T) {
	if _, ok := ParseCarType("트럭"); ok {
		t.Fatal("expected unknown label to be rejected")
	}
	if _, ok := ParseCarType(""); ok {
		t.Fatal("expected empty label to be rejected")
	}
}

func TestCarTypeLabelRoundTrip(t *testing.T) {
	for _, carType := range CarTypes {
		label := carType.Label()
		if label == "" {
			t.Fatalf("car type %q has no label", carType)
		}
		parsed, ok := ParseCarType(label)
		if !ok || parsed != carType {
			t.Fatalf("label %q did not round-trip to %q", label, carType)
		}
	}
}

func TestContractStatusClassification(t *testing.T) {
	open := []ContractStatus{ContractCarInspection, ContractPriceNegotiation, ContractDraft}
	for _, status := range open {
		if !status.IsOpen() {
			t.Fatalf("expected %q to be open", status)
		}
		if status.IsSuccessful() {
			t.Fatalf("expected %q to not be successful", status)
		}
	}

	if ContractSuccessful.IsOpen() {
		t.Fatal("successful must not be open")
	}
	if !ContractSuccessful.IsSuccessful() {
		t.Fatal("successful must be successful")
	}
	if ContractFailed.IsOpen() || ContractFailed.IsSuccessful() {
		t.Fatal("failed must be neither open nor successful")
	}
}

func TestParseContractStatus(t *testing.T) {
	if _, ok := ParseContractStatus("CONTRACT_SUCCESSFUL"); !ok {
		t.Fatal("expected valid status to parse")
	}
	if _, ok := ParseContractStatus("SHIPPED"); ok {
		t.Fatal("expected invalid status to be rejected")
	}
}
