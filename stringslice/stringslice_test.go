package stringslice

import "testing"

func TestIndex(t *testing.T) {
	arr := []string{"ATL", "CLT", "RDU"}
	if Index(arr, "CLT") != 1 {
		t.Errorf("CLT is expected at position 1, got %d", Index(arr, "CLT"))
	}
	if Contains(arr, "SFO") {
		t.Error("SFO should not be found")
	}
}

func TestHasSuffix(t *testing.T) {
	suffixes := []string{"dnac_inventory.yaml", "dnac_inventory.yml"}
	if !HasSuffix("/etc/netinv/lab_dnac_inventory.yml", suffixes) {
		t.Error("yml suffix should be accepted")
	}
	if HasSuffix("/etc/netinv/dnac_inventory.json", suffixes) {
		t.Error("json suffix should not be accepted")
	}
}
