package lessons

import "fmt"

// teach builds a standard taught lesson with the usual opening prompt.
func teach(id, category, title, subtitle, duration string) Lesson {
	return Lesson{
		ID:            id,
		Category:      category,
		Title:         title,
		Subtitle:      subtitle,
		Duration:      duration,
		InitialPrompt: fmt.Sprintf("Sensei, 请教我 %s 的用法", subtitle),
	}
}

// curatedLessons are the hand-written catalog entries. The long tail of each
// JLPT level is filled in by fillLevel with placeholder titles until the
// remaining grammar points get their own copy.
var curatedLessons = []Lesson{
	{ID: "b-1", Category: "基础篇", Title: "三套书写系统", Subtitle: "平假名、片假名与汉字的分工", Duration: "5m", InitialPrompt: "Sensei, 日语为什么要有平假名、片假名和汉字三套书写系统？它们分别在什么场合使用？"},
	{ID: "b-2", Category: "基础篇", Title: "句子基本结构", Subtitle: "主-宾-谓 (SOV) 语序", Duration: "5m", InitialPrompt: "Sensei, 我听说日语的语序和中文、英文都不一样，请用最简单的例子给我讲讲日语的句子基本结构。"},
	{ID: "b-3", Category: "基础篇", Title: "助词的核心作用", Subtitle: "黏合句子的“胶水”", Duration: "5m", InitialPrompt: "Sensei, 像「は」「が」「を」这些被称为“助词”的小字到底有什么用？它们是日语的灵魂吗？"},
	{ID: "b-4", Category: "基础篇", Title: "动词为何要“变形”", Subtitle: "活用：时态、语气与礼貌", Duration: "5m", InitialPrompt: "Sensei, 为什么日语动词有那么多“形”？比如「ます形」「て形」，它们是干什么用的？"},
	{ID: "b-5", Category: "基础篇", Title: "敬语的逻辑", Subtitle: "敬体与普通体", Duration: "5m", InitialPrompt: "Sensei, 日语的敬语体系好复杂，能先给我讲讲最基本的“敬体”和“普通体”有什么区别吗？"},
	{ID: "b-6", Category: "基础篇", Title: "两类“形容词”", Subtitle: "い形容词与な形容词", Duration: "5m", InitialPrompt: "Sensei, 「かわいい」和「きれい」都是“漂亮”的意思，为什么它们在语法上属于不同的类别？"},
	{ID: "b-7", Category: "基础篇", Title: "音高与节奏", Subtitle: "日语的音高重音 (Pitch Accent)", Duration: "5m", InitialPrompt: "Sensei, 日语听起来有种独特的旋律感，它和中文的声调是一回事吗？请简单讲讲音高重音。"},
	{ID: "b-8", Category: "基础篇", Title: "三大动词分类", Subtitle: "五段、一段与不规则动词", Duration: "5m", InitialPrompt: "Sensei, 日语动词变形的规则好像跟它们的分类有关，这“三大类动词”是怎么划分的？"},

	teach("n5-1", "N5语法", "我是谁？", "名词1+は+名词2+です/ではありません", "5m"),
	teach("n5-2", "N5语法", "昨日的我", "名词1+は+名词2+でした/ではありませんでした", "5m"),
	teach("n5-3", "N5语法", "朋友之间别客气", "名词1+は+名词2+だ/ではない", "4m"),
	teach("n5-4", "N5语法", "那些年", "名词1+は+名词2+だった/ではなかった", "4m"),
	teach("n5-5", "N5语法", "你还好吗？", "名词1+は+名词2+ですか/でしたか", "4m"),
	teach("n5-6", "N5语法", "一箭双雕", "名词1+は+名词2+で、名词3です", "4m"),
	teach("n5-7", "N5语法", "指指点点", "これ、それ、あれ、どれ", "5m"),
	teach("n5-8", "N5语法", "这本书，那个人", "この、その、あの、どの", "5m"),
	teach("n5-9", "N5语法", "这里，那里，哪里？", "ここ、そこ、あそこ、どこ", "5m"),
	teach("n5-10", "N5语法", "原来是这样", "こう、そう、ああ、どう", "4m"),
	teach("n5-11", "N5语法", "礼貌地指路", "こちら、そちら、あちら、どちら", "4m"),
	teach("n5-12", "N5语法", "什么样的？", "こんな、そんな、あんな、どんな", "4m"),
	teach("n5-13", "N5语法", "数数的游戏", "基数词", "5m"),
	teach("n5-14", "N5语法", "排排坐，分果果", "序数词", "5m"),
	teach("n5-15", "N5语法", "量词大作战", "常用助数词", "5m"),
	teach("n5-16", "N5语法", "数量怎么读", "常用数量的读法", "5m"),
	teach("n5-17", "N5语法", "动词三大家族", "三类动词的区分", "5m"),
	teach("n5-18", "N5语法", "我开门，门开了", "自动词和他动词", "5m"),
	teach("n5-19", "N5语法", "礼貌第一", "动词「ます形」及敬体形", "5m"),
	teach("n5-20", "N5语法", "万能连接词", "动词「て形」", "5m"),

	teach("n4-1", "N4语法", "默默地离开", "〜ず(に)", "5m"),
	teach("n4-2", "N4语法", "他人的小愿望", "〜たがる", "5m"),
	teach("n4-3", "N4语法", "感觉有点冷", "〜がる", "5m"),
	teach("n4-4", "N4语法", "听说要下雨", "〜そうだ", "5m"),
	teach("n4-5", "N4语法", "仿佛像梦一样", "〜ようだ", "5m"),
	teach("n4-6", "N4语法", "他好像是老师", "〜らしい", "5m"),
	teach("n4-7", "N4语法", "像个孩子似的", "〜みたいだ", "5m"),
	teach("n4-8", "N4语法", "潜能爆发", "可能助动词「れる/られる」", "5m"),
	teach("n4-9", "N4语法", "让他去做吧", "使役助动词「せる/させる」", "5m"),
	teach("n4-10", "N4语法", "我被蚊子咬了", "被动助动词「れる/られる」", "5m"),
	teach("n4-11", "N4语法", "被迫加班", "使役被动助动词「される/させられる」", "5m"),
	teach("n4-12", "N4语法", "快给我站住", "命令助动词「れ/ろ」", "5m"),

	teach("n3-1", "N3语法", "漫长的时间里", "〜間", "5m"),
	teach("n3-2", "N3语法", "一瞬间的插曲", "〜間に", "5m"),
	teach("n3-3", "N3语法", "终于完成了", "〜あがる", "5m"),
	teach("n3-4", "N3语法", "简单就好", "〜いい/よい", "5m"),
	teach("n3-5", "N3语法", "硬币的两面", "〜一方(で)", "5m"),
	teach("n3-6", "N3语法", "情况一直在变", "〜一方だ", "5m"),
	teach("n3-7", "N3语法", "做完之后再说", "〜上で(の)", "5m"),
	teach("n3-8", "N3语法", "理论上可行", "〜上で(は)/上での", "5m"),
	teach("n3-9", "N3语法", "不仅如此，而且", "〜上に", "5m"),
	teach("n3-10", "N3语法", "趁着年轻", "〜うちは", "5m"),
	teach("n3-11", "N3语法", "多亏了你", "〜おかげで/おかげだ", "5m"),
	teach("n3-12", "N3语法", "每隔一天", "〜おきに", "5m"),

	teach("n2-1", "N2语法", "极限挑战", "〜あげく(に)", "5m"),
	teach("n2-2", "N2语法", "忙得不可开交", "〜あまり", "5m"),
	teach("n2-3", "N2语法", "以上，完毕", "〜以上(は)", "5m"),
	teach("n2-4", "N2语法", "一方面却", "〜一方(で)", "5m"),
	teach("n2-5", "N2语法", "自从那以后", "〜以来", "5m"),
	teach("n2-6", "N2语法", "上面写着", "〜上(うえ)", "5m"),
	teach("n2-7", "N2语法", "趁此机会", "〜うえで", "5m"),
	teach("n2-8", "N2语法", "得到了认可", "〜得る(うる/える)", "5m"),
	teach("n2-9", "N2语法", "在我看来", "〜おいて", "5m"),
	teach("n2-10", "N2语法", "担心落空", "〜恐れがある", "5m"),
	teach("n2-11", "N2语法", "倾向于此", "〜がち", "5m"),
	teach("n2-12", "N2语法", "仿佛看到了", "〜かのように", "5m"),
}

var roleplayLessons = []Lesson{
	{
		ID: "rp-konbini", Category: CategoryRoleplay, Title: "深夜便利店", Subtitle: "买关东煮挑战",
		Duration: "实战", Mode: ModeRoleplay,
		InitialPrompt: "我走进了一家深夜的便利店，看起来很累，想买点热乎的关东煮。",
		Roleplay: &RoleplayData{
			Role:      "疲惫但热情的便利店打工仔",
			Scenario:  "深夜 2 点的 7-11 便利店，店里没什么人。",
			Objective: "成功买到萝卜(大根)、鸡蛋(玉子)和魔芋丝(しらたき)。",
		},
	},
	{
		ID: "rp-lost", Category: CategoryRoleplay, Title: "新宿迷路", Subtitle: "向警察问路",
		Duration: "实战", Mode: ModeRoleplay,
		InitialPrompt: "我在新宿站彻底迷路了，一脸茫然地走向交番（派出所）。",
		Roleplay: &RoleplayData{
			Role:      "严肃但耐心的交番警察",
			Scenario:  "拥挤喧闹的新宿站外，交番门口。",
			Objective: "搞清楚怎么从现在的位置走到新宿东口。",
		},
	},
	{
		ID: "rp-izakaya", Category: CategoryRoleplay, Title: "居酒屋", Subtitle: "点单与闲聊",
		Duration: "实战", Mode: ModeRoleplay,
		InitialPrompt: "我和朋友刚坐进居酒屋，举手示意店员。",
		Roleplay: &RoleplayData{
			Role:      "豪爽的居酒屋老板",
			Scenario:  "热闹的周五晚上，充满烟火气的居酒屋。",
			Objective: "询问今天的推荐菜（おすすめ），并点一杯生啤。",
		},
	},
	{
		ID: "rp-hotel", Category: CategoryRoleplay, Title: "酒店退房", Subtitle: "询问额外费用",
		Duration: "实战", Mode: ModeRoleplay,
		InitialPrompt: "我正在前台办理退房，看着账单皱起了眉头。",
		Roleplay: &RoleplayData{
			Role:      "礼貌规范的酒店前台",
			Scenario:  "商务酒店的前台，早上 10 点退房高峰期。",
			Objective: "询问账单上多出来的 500 日元是什么费用，并完成退房。",
		},
	},
}

// fillLevel generates placeholder lessons for grammar points that have not
// been given curated copy yet.
func fillLevel(level string, from, to int) []Lesson {
	var out []Lesson
	for i := from; i <= to; i++ {
		subtitle := fmt.Sprintf("%s语法点 %d", level, i)
		out = append(out, Lesson{
			ID:            fmt.Sprintf("%s-%d", levelID(level), i),
			Category:      level + "语法",
			Title:         "未命名语法点",
			Subtitle:      subtitle,
			Duration:      "5m",
			InitialPrompt: fmt.Sprintf("Sensei, 请教我 %s 的用法", subtitle),
		})
	}
	return out
}

func levelID(level string) string {
	switch level {
	case "N5":
		return "n5"
	case "N4":
		return "n4"
	case "N3":
		return "n3"
	case "N2":
		return "n2"
	default:
		return "n1"
	}
}

func builtinLessons() []Lesson {
	lessons := make([]Lesson, 0, 820)
	lessons = append(lessons, curatedLessons...)
	lessons = append(lessons, fillLevel("N5", 21, 120)...)
	lessons = append(lessons, fillLevel("N4", 13, 111)...)
	lessons = append(lessons, fillLevel("N3", 13, 216)...)
	lessons = append(lessons, fillLevel("N2", 13, 157)...)
	lessons = append(lessons, fillLevel("N1", 1, 196)...)
	lessons = append(lessons, roleplayLessons...)
	return lessons
}
