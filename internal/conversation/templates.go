package conversation

import (
	"fmt"

	"github.com/llatino/my-laundry-bot/internal/customers"
)

type outcomeKind int

const (
	outcomeResolved outcomeKind = iota
	outcomeUnknownIdentity
	outcomeSystemFailure
)

// Outcome is the result of running the pipeline for one inbound message.
// Build one with Resolved, UnknownIdentity or SystemFailure and hand it to
// Compose.
type Outcome struct {
	kind        outcomeKind
	record      *customers.Record
	intent      Intent
	identityKey string
	detail      string
}

// Resolved is the outcome for a known customer with a classified intent.
func Resolved(rec *customers.Record, intent Intent) Outcome {
	return Outcome{kind: outcomeResolved, record: rec, intent: intent}
}

// UnknownIdentity is the outcome for a sender with no row in the store.
func UnknownIdentity(identityKey string) Outcome {
	return Outcome{kind: outcomeUnknownIdentity, identityKey: identityKey}
}

// SystemFailure is the outcome for credential or store failures. The detail
// is kept for server-side logging and never shown to the customer.
func SystemFailure(detail string) Outcome {
	return Outcome{kind: outcomeSystemFailure, detail: detail}
}

// Detail returns the internal failure description, empty for non-failure
// outcomes.
func (o Outcome) Detail() string { return o.detail }

const apologyReply = "ขออภัยครับ ระบบขัดข้องชั่วคราว กรุณาลองใหม่อีกครั้งภายหลังครับ 🙏"

// Compose renders the reply text for an outcome. It always returns a
// non-empty string.
func Compose(o Outcome) string {
	switch o.kind {
	case outcomeResolved:
		return composeResolved(o.record, o.intent)
	case outcomeUnknownIdentity:
		return fmt.Sprintf(
			"ขออภัยครับ ไม่พบข้อมูลสมาชิกของคุณ\nID ของคุณคือ: %s\nกรุณาแจ้งเจ้าหน้าที่เพื่อลงทะเบียนครับ",
			o.identityKey,
		)
	default:
		return apologyReply
	}
}

func composeResolved(rec *customers.Record, intent Intent) string {
	switch intent {
	case IntentStatus:
		return fmt.Sprintf("สวัสดีครับคุณ %s ✨\nขณะนี้ผ้าของคุณ: %s", rec.DisplayName, rec.Status)
	case IntentBilling:
		return fmt.Sprintf("คุณ %s มียอดชำระทั้งหมด %s บาทครับ 💰", rec.DisplayName, rec.Price)
	default:
		return fmt.Sprintf(
			"สวัสดีครับคุณ %s มีอะไรให้ช่วยไหมครับ?\n- พิมพ์ 'สถานะ' เพื่อเช็คผ้า\n- พิมพ์ 'บิล' เพื่อดูราคา",
			rec.DisplayName,
		)
	}
}
