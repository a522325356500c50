package eventbus

import "strings"

// Topics 는 기능별 기본 토픽 이름을 한 곳에서 관리한다.
// 접두사는 events.topic_prefix 설정으로 바꿀 수 있다.
type Topics struct {
	Blogs Topic
	Posts Topic
	Users Topic
}

const defaultTopicPrefix = "wp-dispatch"

func NewTopics(prefix string) Topics {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = defaultTopicPrefix
	}
	return Topics{
		Blogs: NewTopic(prefix + ".blog.events"),
		Posts: NewTopic(prefix + ".post.events"),
		Users: NewTopic(prefix + ".user.events"),
	}
}

func (t Topics) All() []Topic {
	return []Topic{t.Blogs, t.Posts, t.Users}
}
