package services

import (
	"expired-listings/models"
	"expired-listings/utils"
)

// FindExpiredUnlisted returns the off-market listings whose address appears
// in neither the sold nor the for-sale export. Addresses compare
// case-insensitively; off-market order and duplicates are preserved.
// A blank address matches a blank address.
func FindExpiredUnlisted(offMarket, sold, forSale []*models.Listing) []*models.Listing {
	return excludeAddresses(offMarket, addressSet(sold), addressSet(forSale))
}

func excludeAddresses(offMarket []*models.Listing, sets ...*utils.AddressSet) []*models.Listing {
	expired := make([]*models.Listing, 0, len(offMarket))
outer:
	for _, l := range offMarket {
		for _, set := range sets {
			if set.Contains(l.Address) {
				continue outer
			}
		}
		expired = append(expired, l)
	}
	return expired
}

func addressSet(listings []*models.Listing) *utils.AddressSet {
	set := utils.NewAddressSet()
	for _, l := range listings {
		set.Add(l.Address)
	}
	return set
}
