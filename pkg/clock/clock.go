// Package clock 日期工具
//
// 借阅相关日期（借出日、应还日、归还日）只有日历日意义，
// 统一表示为该日历日UTC零点，便于跨数据库存取和按天相减。
package clock

import "time"

// Clock 可注入的时间源，测试中替换为固定时间
type Clock func() time.Time

// System 系统时钟
func System() time.Time { return time.Now() }

// DateLayout 日期的JSON/查询参数格式
const DateLayout = "2006-01-02"

// Date 取t所在时区的日历日，返回该日UTC零点
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today 时钟对应的日历日
func (c Clock) Today() time.Time {
	if c == nil {
		return Date(time.Now())
	}
	return Date(c())
}

// DaysBetween to-from 的整天数（两者先取日历日）
func DaysBetween(from, to time.Time) int {
	return int(Date(to).Sub(Date(from)).Hours() / 24)
}

// AddDays 日历日加减天数
func AddDays(date time.Time, days int) time.Time {
	return Date(date).AddDate(0, 0, days)
}

// Format 按 YYYY-MM-DD 格式化
func Format(date time.Time) string {
	return date.Format(DateLayout)
}

// FormatPtr 可空日期格式化，nil返回nil
func FormatPtr(date *time.Time) *string {
	if date == nil {
		return nil
	}
	s := Format(*date)
	return &s
}
