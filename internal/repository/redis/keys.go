package redis

import "fmt"

const ns = "citybus:v1"

func KeyLocation(stopCode string) string {
	return fmt.Sprintf("%s:stop:%s:location", ns, stopCode)
}

func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func KeyIdemBooking(sessionID, idemKey string) string {
	return fmt.Sprintf("%s:idem:booking:%s:%s", ns, sessionID, idemKey)
}

func ChannelTickets() string {
	return ns + ":tickets"
}
