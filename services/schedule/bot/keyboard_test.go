package bot

import (
	"testing"
	"time"

	"teachhub/domain"
)

func TestTokenStoreSingleUse(t *testing.T) {
	ts := newTokenStore()
	token := ts.issue("approve", 100)

	action, ok := ts.redeem(token)
	if !ok {
		t.Fatal("fresh token did not redeem")
	}
	if action.kind != "approve" || action.userID != 100 {
		t.Errorf("action = %+v", action)
	}

	if _, ok := ts.redeem(token); ok {
		t.Error("token redeemed twice")
	}
}

func TestTokenStoreUnknownToken(t *testing.T) {
	ts := newTokenStore()
	if _, ok := ts.redeem("made-up"); ok {
		t.Error("unknown token redeemed")
	}
}

func TestTokenStoreExpiry(t *testing.T) {
	ts := newTokenStore()
	token := ts.issue("deny", 100)

	ts.mu.Lock()
	action := ts.tokens[token]
	action.expires = time.Now().Add(-time.Minute)
	ts.tokens[token] = action
	ts.mu.Unlock()

	if _, ok := ts.redeem(token); ok {
		t.Error("expired token redeemed")
	}
}

func TestTokensAreUnique(t *testing.T) {
	ts := newTokenStore()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := ts.issue("approve", int64(i))
		if seen[token] {
			t.Fatalf("duplicate token at iteration %d", i)
		}
		seen[token] = true
	}
}

func TestWeekToggleKeyboardFlips(t *testing.T) {
	kb := weekToggleKeyboard(domain.WeekNumerator)
	btn := kb.InlineKeyboard[0][0]
	if *btn.CallbackData != "week:denominator" {
		t.Errorf("callback = %q", *btn.CallbackData)
	}

	kb = weekToggleKeyboard(domain.WeekDenominator)
	btn = kb.InlineKeyboard[0][0]
	if *btn.CallbackData != "week:numerator" {
		t.Errorf("callback = %q", *btn.CallbackData)
	}
}

func TestAdminMenuKeyboardCallbacks(t *testing.T) {
	kb := adminMenuKeyboard()
	var got []string
	for _, row := range kb.InlineKeyboard {
		for _, btn := range row {
			got = append(got, *btn.CallbackData)
		}
	}
	want := []string{"adm:pending", "adm:users:0", "adm:week:numerator", "adm:week:denominator"}
	if len(got) != len(want) {
		t.Fatalf("callbacks = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("callback[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
