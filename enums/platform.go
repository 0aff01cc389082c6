package enums

type Platform string

const (
	PlatformMarketplace Platform = "marketplace"
	PlatformReddit      Platform = "reddit"
)
