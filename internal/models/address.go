package models

// AddressOption is one selectable entry of an administrative level
// (province, district or ward) as returned by the catalog backend.
type AddressOption struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// AddressSelection is the dependent province → district → ward triple.
// A lower level is only meaningful while its parent is selected.
type AddressSelection struct {
	Province AddressOption `json:"province"`
	District AddressOption `json:"district"`
	Ward     AddressOption `json:"ward"`
}
