package formatting

func pluralize(count int, one, few, many string) string {
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeLessons возвращает правильное склонение слова "занятие"
func PluralizeLessons(count int) string {
	return pluralize(count, "занятие", "занятия", "занятий")
}
