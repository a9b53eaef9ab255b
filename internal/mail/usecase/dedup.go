package usecase

import (
	"log"

	"github.com/KrasilnikovaKateryna/detect-autogenerated-emails-bot/pkg/mailbox"
)

// Deduplicate reduces the listed UIDs to one message per distinct sender
// address. When a sender appears more than once, the last-listed message
// wins. Messages whose sender header cannot be parsed are skipped. The
// returned slice preserves the listing order of the winning messages.
func Deduplicate(uids []uint32, fetchHeader func(uid uint32) ([]byte, error)) []uint32 {
	bySender := make(map[string]uint32)
	for _, uid := range uids {
		raw, err := fetchHeader(uid)
		if err != nil {
			log.Printf("[Dedup] fetch uid %d: %v", uid, err)
			continue
		}
		addr, err := mailbox.SenderAddress(raw)
		if err != nil {
			log.Printf("[Dedup] uid %d: %v", uid, err)
			continue
		}
		bySender[addr] = uid
	}

	winners := make(map[uint32]bool, len(bySender))
	for _, uid := range bySender {
		winners[uid] = true
	}

	selected := make([]uint32, 0, len(bySender))
	for _, uid := range uids {
		if winners[uid] {
			selected = append(selected, uid)
		}
	}
	return selected
}
