package ranking

import (
	"fmt"

	"github.com/SlpAus/culling-game-backend/internal/platform/config"
	"github.com/SlpAus/culling-game-backend/internal/platform/logger"
	"github.com/SlpAus/culling-game-backend/pkg/lifecycle"
	"gopkg.in/gomail.v2"
)

// RankMovement 描述一次需要通知的名次变动
type RankMovement struct {
	Email         string
	CharacterName string
	OldRank       int
	NewRank       int
}

// notifyChan 是通知的缓冲队列。队列满时直接丢弃新通知——
// 排名邮件是尽力而为的，绝不反过来拖慢重排。
var notifyChan = make(chan RankMovement, 64)

// QueueRankMovement 将一次名次变动放入通知队列，满了就丢
func QueueRankMovement(m RankMovement) {
	select {
	case notifyChan <- m:
	default:
		logger.L.Warnw("通知队列已满，丢弃名次变动通知", "email", m.Email, "character", m.CharacterName)
	}
}

// StartNotifier 启动通知分发goroutine，生命周期由handle管理
func StartNotifier(handle *lifecycle.Handle) {
	go func() {
		defer handle.Close()

		if !config.Cfg.Mail.Enabled() {
			logger.L.Warn("SMTP未完整配置，名次变动通知将被跳过")
		}

		for {
			select {
			case <-handle.Done():
				return
			case m := <-notifyChan:
				if !config.Cfg.Mail.Enabled() {
					continue
				}
				if err := sendMovementEmail(m); err != nil {
					// 发信失败只记录，不重试
					logger.L.Warnw("名次变动邮件发送失败", "email", m.Email, "error", err)
				}
			}
		}
	}()
}

// sendMovementEmail 发送一封名次变动邮件
func sendMovementEmail(m RankMovement) error {
	mailCfg := config.Cfg.Mail
	appURL := config.Cfg.Server.AppURL

	subject := "Your spot on The Culling Game leaderboard was taken"
	movementText := fmt.Sprintf("Your rank dropped from #%d to #%d.", m.OldRank, m.NewRank)
	if m.NewRank < m.OldRank {
		subject = "You climbed the leaderboard in The Culling Game"
		movementText = fmt.Sprintf("Your rank improved from #%d to #%d.", m.OldRank, m.NewRank)
	}

	html := fmt.Sprintf(`<div style="font-family:system-ui,sans-serif;color:#111827;">
  <p style="font-size:10px;letter-spacing:0.28em;text-transform:uppercase;color:#6B7280;">The Culling Game &middot; Leaderboard Alert</p>
  <h1 style="font-size:22px;margin:12px 0 4px 0;">%s's position has changed</h1>
  <p>%s</p>
  <p>Previous rank: <strong>#%d</strong> &rarr; Current rank: <strong>#%d</strong></p>
  <p>Jump back in to reclaim your spot or push even higher. Winning battles and evolving your character will boost your ranking.</p>
  <p>
    <a href="%s/leaderboard">View Leaderboard</a> &middot;
    <a href="%s/dashboard">Open Dashboard</a>
  </p>
  <p style="font-size:10px;color:#9CA3AF;">You are receiving this email because your character's ranking changed on The Culling Game leaderboard.</p>
</div>`,
		m.CharacterName, movementText, m.OldRank, m.NewRank, appURL, appURL)

	msg := gomail.NewMessage()
	msg.SetHeader("From", mailCfg.From)
	msg.SetHeader("To", m.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	dialer := gomail.NewDialer(mailCfg.Host, mailCfg.Port, mailCfg.Username, mailCfg.Password)
	return dialer.DialAndSend(msg)
}
