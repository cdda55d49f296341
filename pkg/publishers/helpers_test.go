package publishers

import "github.com/Adda-Baaj/pcprice/pkg/pcprice"

func testEvent() Event {
	local := 3047.25
	return NewEvent("gpu-midrange", "Mid-range GPUs", "gpu", pcprice.Product{
		ID:         42,
		Name:       "MSI GeForce RTX 4070 Ti Ventus 3X",
		Brand:      "MSI",
		Type:       "gpu",
		PriceUSD:   812.5,
		PriceLocal: &local,
		Stock:      "high",
		Store:      "sercoplus",
	})
}
