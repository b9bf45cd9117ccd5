package fight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SlpAus/culling-game-backend/internal/character"
	"github.com/SlpAus/culling-game-backend/internal/platform/database"
	"gorm.io/gorm"
)

// ErrFightNotFound 表示对战记录不存在
var ErrFightNotFound = errors.New("对战记录不存在")

// FightDetailDTO 是单场对战的公开视图，附带双方名字
type FightDetailDTO struct {
	FightResult
	WinnerName string `json:"winnerName"`
	LoserName  string `json:"loserName"`
}

// RecentFightDTO 是角色主页上最近战绩的瘦身视图
type RecentFightDTO struct {
	ID           string `json:"id"`
	OpponentID   string `json:"opponentId"`
	OpponentName string `json:"opponentName"`
	Won          bool   `json:"won"`
	SummaryTitle string `json:"summaryTitle"`
	OccurredAt   string `json:"occurredAt"`
}

// ReportPage 是分页后的战报列表
type ReportPage struct {
	Reports  []FightDetailDTO `json:"reports"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int64            `json:"total"`
	HasMore  bool             `json:"hasMore"`
}

// GetResultByID 按主键读取对战记录
func GetResultByID(id string) (*FightResult, error) {
	var record FightResult
	if err := database.DB.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFightNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetDetailByID 读取对战记录并补上双方名字
func GetDetailByID(id string) (*FightDetailDTO, error) {
	record, err := GetResultByID(id)
	if err != nil {
		return nil, err
	}

	names, err := fetchNames([]string{record.WinnerID, record.LoserID})
	if err != nil {
		return nil, err
	}

	return &FightDetailDTO{
		FightResult: *record,
		WinnerName:  names[record.WinnerID],
		LoserName:   names[record.LoserID],
	}, nil
}

// ListRecentForCharacter 返回某个角色最近的若干场对战
func ListRecentForCharacter(characterID string, limit int) ([]RecentFightDTO, error) {
	if limit <= 0 {
		limit = 10
	}

	var records []FightResult
	err := database.DB.
		Where("winner_id = ? OR loser_id = ?", characterID, characterID).
		Order("occurred_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("无法查询最近对战: %w", err)
	}

	opponentIDs := make([]string, 0, len(records))
	for _, r := range records {
		if r.WinnerID == characterID {
			opponentIDs = append(opponentIDs, r.LoserID)
		} else {
			opponentIDs = append(opponentIDs, r.WinnerID)
		}
	}
	names, err := fetchNames(opponentIDs)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentFightDTO, 0, len(records))
	for _, r := range records {
		won := r.WinnerID == characterID
		opponentID := r.WinnerID
		if won {
			opponentID = r.LoserID
		}
		recent = append(recent, RecentFightDTO{
			ID:           r.ID,
			OpponentID:   opponentID,
			OpponentName: names[opponentID],
			Won:          won,
			SummaryTitle: r.SummaryTitle,
			OccurredAt:   r.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return recent, nil
}

// ListReports 分页返回战报，支持按标题模糊检索
func ListReports(page, pageSize int, search string) (*ReportPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}

	query := database.DB.Model(&FightResult{})
	if search != "" {
		query = query.Where("LOWER(summary_title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("无法统计战报数量: %w", err)
	}

	var records []FightResult
	err := query.
		Order("occurred_at desc").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("无法查询战报列表: %w", err)
	}

	ids := make([]string, 0, len(records)*2)
	for _, r := range records {
		ids = append(ids, r.WinnerID, r.LoserID)
	}
	names, err := fetchNames(ids)
	if err != nil {
		return nil, err
	}

	reports := make([]FightDetailDTO, 0, len(records))
	for _, r := range records {
		reports = append(reports, FightDetailDTO{
			FightResult: r,
			WinnerName:  names[r.WinnerID],
			LoserName:   names[r.LoserID],
		})
	}

	return &ReportPage{
		Reports:  reports,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  int64((page-1)*pageSize+len(records)) < total,
	}, nil
}

// fetchNames 批量查询角色名字，已删除的角色显示为空串
func fetchNames(ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   string
		Name string
	}
	err := database.DB.Model(&character.Character{}).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("无法批量查询角色名字: %w", err)
	}

	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
